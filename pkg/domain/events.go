package domain

import (
	"context"
	"time"
)

// EventType defines the category of a dialogue event.
type EventType string

const (
	EventQuestionAsked  EventType = "question_asked"
	EventAnswerRecorded EventType = "answer_recorded"
	EventAnswerRetry    EventType = "answer_retry"
	EventProposalReady  EventType = "proposal_ready"
)

// AnswerSource tells where a recorded answer came from.
type AnswerSource string

const (
	SourceUser          AnswerSource = "user"
	SourceSharedContext AnswerSource = "shared_context"
	SourceSkipped       AnswerSource = "skipped"
)

// DialogueEvent is emitted by the engine at each observable step.
type DialogueEvent struct {
	Timestamp      time.Time    `json:"timestamp"`
	Type           EventType    `json:"type"`
	ConversationID string       `json:"conversation_id"`
	Service        string       `json:"service"`
	QuestionKey    string       `json:"question_key,omitempty"`
	Source         AnswerSource `json:"source,omitempty"`
	Attempt        int          `json:"attempt,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnQuestionAsked  func(context.Context, *DialogueEvent)
	OnAnswerRecorded func(context.Context, *DialogueEvent)
	OnAnswerRetry    func(context.Context, *DialogueEvent)
	OnProposalReady  func(context.Context, *DialogueEvent)
}
