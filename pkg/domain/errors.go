package domain

import "errors"

// ErrUnknownService is returned when no question graph is registered for a service.
var ErrUnknownService = errors.New("unknown service")

// ErrConversationNotFound is returned when a conversation ID cannot be found in the store.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrUnresolvedAnswer signals that a message could not be resolved to a valid
// value for the expected question. The engine recovers from it by re-asking.
var ErrUnresolvedAnswer = errors.New("unresolved answer")

// ErrInvalidGraph is returned when a question graph fails structural validation.
var ErrInvalidGraph = errors.New("invalid question graph")

// ErrInvalidTurn is returned when an inbound turn lacks the data needed to route it.
var ErrInvalidTurn = errors.New("invalid turn")
