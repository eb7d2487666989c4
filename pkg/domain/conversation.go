package domain

import "time"

// DefaultHistoryLimit is the number of messages retained per conversation.
const DefaultHistoryLimit = 100

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           Role   `json:"role"`
	Content        string `json:"content"`

	// Sender fields are set when a human stands in for the assistant (e.g. a live agent).
	SenderID   string `json:"sender_id,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	SenderRole string `json:"sender_role,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssistantState is the answer map accumulated so far plus the dialogue cursor.
type AssistantState struct {
	Answers Answers `json:"answers"`

	// Cursor is the ID of the question awaiting an answer. Empty before the
	// first question is asked and after the dialogue is done.
	Cursor string `json:"cursor,omitempty"`

	// Attempts counts unresolved replies to the question at Cursor.
	Attempts int `json:"attempts,omitempty"`

	// Settled holds question IDs that were answered, prefilled or skipped.
	Settled []string `json:"settled,omitempty"`

	// Visited holds question keys in the order they were resolved.
	Visited []string `json:"visited,omitempty"`

	// Prefilled holds keys answered silently from shared context.
	Prefilled []string `json:"prefilled,omitempty"`

	Done     bool      `json:"done,omitempty"`
	Proposal *Proposal `json:"proposal,omitempty"`
}

// NewAssistantState returns an empty state positioned before the first question.
func NewAssistantState() *AssistantState {
	return &AssistantState{Answers: make(Answers)}
}

// IsSettled reports whether the question with the given ID needs no further input.
func (s *AssistantState) IsSettled(id string) bool {
	for _, v := range s.Settled {
		if v == id {
			return true
		}
	}
	return false
}

// Settle marks a question as resolved and records its key in the visit path.
func (s *AssistantState) Settle(q *Question) {
	if !s.IsSettled(q.ID) {
		s.Settled = append(s.Settled, q.ID)
		s.Visited = append(s.Visited, q.Key)
	}
}

// Clone returns a deep copy of the state.
func (s *AssistantState) Clone() *AssistantState {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = s.Answers.Clone()
	if next.Answers == nil {
		next.Answers = make(Answers)
	}
	next.Settled = append([]string(nil), s.Settled...)
	next.Visited = append([]string(nil), s.Visited...)
	next.Prefilled = append([]string(nil), s.Prefilled...)
	if s.Proposal != nil {
		p := s.Proposal.Clone()
		next.Proposal = &p
	}
	return &next
}

// Conversation is one user-facing dialogue session.
type Conversation struct {
	ID          string    `json:"id"`
	Service     string    `json:"service,omitempty"`
	CreatedByID string    `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Messages are ordered oldest first and capped at the store's history limit.
	Messages []Message `json:"messages"`

	// State is nil until the dialogue engine first touches the conversation.
	State *AssistantState `json:"assistant_state,omitempty"`
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	next := *c
	next.Messages = append([]Message(nil), c.Messages...)
	next.State = c.State.Clone()
	return &next
}

// NewConversationParams holds the inputs to create or ensure a conversation.
type NewConversationParams struct {
	ID          string
	Service     string
	CreatedByID string
}

// NewMessageParams holds the inputs to append a message.
type NewMessageParams struct {
	ConversationID string
	Role           Role
	Content        string
	SenderID       string
	SenderName     string
	SenderRole     string
}
