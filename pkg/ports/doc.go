/*
Package ports defines the driven ports (interfaces) of the intake engine.

These interfaces decouple the dialogue logic from storage backends and from
the free-text matching strategy, so tests can instantiate isolated stores and
a stronger matcher can replace the keyword one without touching the engine.

# Key Interfaces

  - ConversationStore: Conversations, their bounded message history and assistant state.
  - SharedContextStore: Short-lived cross-conversation answer snapshots.
  - DistributedLocker: Cross-replica serialization of a conversation.
  - Matcher: Recognizes which question a message answers and which option it picks.
*/
package ports
