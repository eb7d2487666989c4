/*
Package session serializes work on a single conversation.

The dialogue engine assumes one writer per conversation at a time. Manager
hands out a per-conversation mutex, reference counted so idle conversations
do not leak locks, and can additionally take a distributed lock so several
replicas sharing a Redis store stay serialized too.
*/
package session
