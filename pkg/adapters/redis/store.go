package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Conversations are a HASH of metadata plus the JSON-encoded assistant state,
// and a LIST of JSON-encoded messages trimmed to the history limit.
// The service index is a HASH of service -> latest conversation ID.

// appendScript pushes a message only when the conversation exists.
// KEYS: meta, messages. ARGV: message JSON, history limit, updated_at, ttl ms.
var appendScript = backend.NewScript(`
if redis.call("exists", KEYS[1]) == 0 then
	return 0
end
redis.call("rpush", KEYS[2], ARGV[1])
redis.call("ltrim", KEYS[2], -tonumber(ARGV[2]), -1)
redis.call("hset", KEYS[1], "updated_at", ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call("pexpire", KEYS[1], ARGV[4])
	redis.call("pexpire", KEYS[2], ARGV[4])
end
return 1
`)

// saveStateScript replaces the state field only when the conversation exists.
// KEYS: meta. ARGV: state JSON, updated_at.
var saveStateScript = backend.NewScript(`
if redis.call("exists", KEYS[1]) == 0 then
	return 0
end
redis.call("hset", KEYS[1], "state", ARGV[1], "updated_at", ARGV[2])
return 1
`)

// unindexScript removes a service index entry only if it still points at the given ID.
// KEYS: index. ARGV: service, conversation ID.
var unindexScript = backend.NewScript(`
if redis.call("hget", KEYS[1], ARGV[1]) == ARGV[2] then
	return redis.call("hdel", KEYS[1], ARGV[1])
end
return 0
`)

// ConversationStore implements ports.ConversationStore using Redis.
type ConversationStore struct {
	client backend.UniversalClient
	opts   options
}

// NewConversationStore creates a conversation store from an existing client.
// Conversations do not expire unless WithTTL is given.
func NewConversationStore(client backend.UniversalClient, opts ...Option) *ConversationStore {
	return &ConversationStore{
		client: client,
		opts:   apply(0, opts),
	}
}

func (s *ConversationStore) metaKey(id string) string {
	return s.opts.prefix + "conversation:" + id
}

func (s *ConversationStore) messagesKey(id string) string {
	return s.opts.prefix + "conversation:" + id + ":messages"
}

func (s *ConversationStore) indexKey() string {
	return s.opts.prefix + "service-index"
}

// CreateConversation allocates a fresh conversation and points the service index at it.
func (s *ConversationStore) CreateConversation(ctx context.Context, params domain.NewConversationParams) (*domain.Conversation, error) {
	now := s.opts.now()
	conv := &domain.Conversation{
		ID:          s.opts.newID(),
		Service:     params.Service,
		CreatedByID: params.CreatedByID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Messages:    []domain.Message{},
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.metaKey(conv.ID),
		"id", conv.ID,
		"service", conv.Service,
		"created_by_id", conv.CreatedByID,
		"created_at", formatTime(now),
		"updated_at", formatTime(now),
	)
	if s.opts.ttl > 0 {
		pipe.PExpire(ctx, s.metaKey(conv.ID), s.opts.ttl)
	}
	if conv.Service != "" {
		pipe.HSet(ctx, s.indexKey(), conv.Service, conv.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// EnsureConversation returns the conversation for params.ID or creates a new one.
// It never falls back to the service index.
func (s *ConversationStore) EnsureConversation(ctx context.Context, params domain.NewConversationParams) (*domain.Conversation, error) {
	if params.ID != "" {
		conv, err := s.GetConversation(ctx, params.ID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, domain.ErrConversationNotFound) {
			return nil, err
		}
	}
	return s.CreateConversation(ctx, params)
}

// GetConversation loads metadata, state and messages.
func (s *ConversationStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	pipe := s.client.Pipeline()
	metaCmd := pipe.HGetAll(ctx, s.metaKey(id))
	msgsCmd := pipe.LRange(ctx, s.messagesKey(id), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		return nil, domain.ErrConversationNotFound
	}

	conv := &domain.Conversation{
		ID:          meta["id"],
		Service:     meta["service"],
		CreatedByID: meta["created_by_id"],
		CreatedAt:   parseTime(meta["created_at"]),
		UpdatedAt:   parseTime(meta["updated_at"]),
	}
	if raw, ok := meta["state"]; ok && raw != "" {
		var state domain.AssistantState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal state: %w", err)
		}
		if state.Answers == nil {
			state.Answers = make(domain.Answers)
		}
		conv.State = &state
	}

	msgs, err := decodeMessages(msgsCmd.Val())
	if err != nil {
		return nil, err
	}
	conv.Messages = msgs
	return conv, nil
}

// SaveState persists the assistant state.
func (s *ConversationStore) SaveState(ctx context.Context, id string, state *domain.AssistantState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	ok, err := saveStateScript.Run(ctx, s.client, []string{s.metaKey(id)}, data, formatTime(s.opts.now())).Int()
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	if ok == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

// AddMessage appends a message, trimming the list to the history limit.
func (s *ConversationStore) AddMessage(ctx context.Context, params domain.NewMessageParams) (*domain.Message, error) {
	now := s.opts.now()
	msg := &domain.Message{
		ID:             s.opts.newID(),
		ConversationID: params.ConversationID,
		Role:           params.Role,
		Content:        params.Content,
		SenderID:       params.SenderID,
		SenderName:     params.SenderName,
		SenderRole:     params.SenderRole,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	keys := []string{s.metaKey(params.ConversationID), s.messagesKey(params.ConversationID)}
	ok, err := appendScript.Run(ctx, s.client, keys,
		data, s.opts.historyLimit, formatTime(now), s.opts.ttl.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	if ok == 0 {
		return nil, domain.ErrConversationNotFound
	}
	return msg, nil
}

// ListMessages returns the most recent limit messages, oldest first.
func (s *ConversationStore) ListMessages(ctx context.Context, id string, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > s.opts.historyLimit {
		limit = s.opts.historyLimit
	}

	pipe := s.client.Pipeline()
	existsCmd := pipe.Exists(ctx, s.metaKey(id))
	msgsCmd := pipe.LRange(ctx, s.messagesKey(id), int64(-limit), -1)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if existsCmd.Val() == 0 {
		return nil, domain.ErrConversationNotFound
	}
	return decodeMessages(msgsCmd.Val())
}

// DeleteConversation removes the conversation, its messages and its service index entry.
func (s *ConversationStore) DeleteConversation(ctx context.Context, id string) (bool, error) {
	service, err := s.client.HGet(ctx, s.metaKey(id), "service").Result()
	if err != nil && !errors.Is(err, backend.Nil) {
		return false, fmt.Errorf("failed to read conversation: %w", err)
	}

	removed, err := s.client.Del(ctx, s.metaKey(id), s.messagesKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	if service != "" {
		if err := unindexScript.Run(ctx, s.client, []string{s.indexKey()}, service, id).Err(); err != nil && !errors.Is(err, backend.Nil) {
			return false, fmt.Errorf("failed to clear service index: %w", err)
		}
	}
	return removed > 0, nil
}

// LatestForService returns the most recently created conversation for service.
func (s *ConversationStore) LatestForService(ctx context.Context, service string) (string, bool, error) {
	id, err := s.client.HGet(ctx, s.indexKey(), service).Result()
	if errors.Is(err, backend.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read service index: %w", err)
	}
	return id, true, nil
}

// Close closes the redis client.
func (s *ConversationStore) Close() error {
	return s.client.Close()
}

func decodeMessages(raw []string) ([]domain.Message, error) {
	msgs := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func formatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseTime(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
