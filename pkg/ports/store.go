package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// ConversationStore persists conversations, their message history and assistant state.
// Implementations keep at most their configured history limit of messages per
// conversation, evicting the oldest first.
type ConversationStore interface {
	// CreateConversation allocates a fresh conversation. When Service is set it
	// also updates the service to latest-conversation index.
	CreateConversation(ctx context.Context, params domain.NewConversationParams) (*domain.Conversation, error)

	// EnsureConversation returns the conversation for params.ID when it exists,
	// otherwise it creates a new one. It never reuses a conversation by service.
	EnsureConversation(ctx context.Context, params domain.NewConversationParams) (*domain.Conversation, error)

	// GetConversation returns domain.ErrConversationNotFound when id is unknown.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// SaveState replaces the assistant state of a conversation.
	SaveState(ctx context.Context, id string, state *domain.AssistantState) error

	// AddMessage appends a message. It returns domain.ErrConversationNotFound
	// when the conversation does not exist.
	AddMessage(ctx context.Context, params domain.NewMessageParams) (*domain.Message, error)

	// ListMessages returns the most recent limit messages, oldest first.
	// A limit <= 0 means the store's history limit.
	ListMessages(ctx context.Context, id string, limit int) ([]domain.Message, error)

	// DeleteConversation removes the conversation and, if it pointed at it,
	// the service index entry. It reports whether anything was deleted.
	DeleteConversation(ctx context.Context, id string) (bool, error)

	// LatestForService returns the most recently created conversation for a service.
	LatestForService(ctx context.Context, service string) (string, bool, error)
}

// SharedContextStore keeps short-lived answer snapshots shared across conversations.
// Values are deep-copied on read and write.
type SharedContextStore interface {
	// Get returns nil when the key is unknown or its entry has expired.
	// Expired entries are deleted on read.
	Get(ctx context.Context, key string) (map[string]any, error)

	// Set stores a copy of snapshot with a fresh timestamp, replacing any prior entry.
	Set(ctx context.Context, key string, snapshot map[string]any) error
}
