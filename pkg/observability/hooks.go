package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/intake/pkg/domain"
)

// LoggingHooks logs every dialogue event at debug level, and proposals at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(level slog.Level) func(context.Context, *domain.DialogueEvent) {
		return func(ctx context.Context, e *domain.DialogueEvent) {
			logger.Log(ctx, level, string(e.Type),
				"conversation_id", e.ConversationID,
				"service", e.Service,
				"question", e.QuestionKey,
				"source", e.Source,
				"attempt", e.Attempt,
			)
		}
	}
	return domain.LifecycleHooks{
		OnQuestionAsked:  log(slog.LevelDebug),
		OnAnswerRecorded: log(slog.LevelDebug),
		OnAnswerRetry:    log(slog.LevelDebug),
		OnProposalReady:  log(slog.LevelInfo),
	}
}

// Combine fans each event out to every non-nil callback, in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	fan := func(pick func(domain.LifecycleHooks) func(context.Context, *domain.DialogueEvent)) func(context.Context, *domain.DialogueEvent) {
		var fns []func(context.Context, *domain.DialogueEvent)
		for _, h := range all {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *domain.DialogueEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}
	return domain.LifecycleHooks{
		OnQuestionAsked:  fan(func(h domain.LifecycleHooks) func(context.Context, *domain.DialogueEvent) { return h.OnQuestionAsked }),
		OnAnswerRecorded: fan(func(h domain.LifecycleHooks) func(context.Context, *domain.DialogueEvent) { return h.OnAnswerRecorded }),
		OnAnswerRetry:    fan(func(h domain.LifecycleHooks) func(context.Context, *domain.DialogueEvent) { return h.OnAnswerRetry }),
		OnProposalReady:  fan(func(h domain.LifecycleHooks) func(context.Context, *domain.DialogueEvent) { return h.OnProposalReady }),
	}
}
