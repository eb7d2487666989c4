package intake_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/catalog"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/dsl"
	"github.com/aretw0/intake/pkg/registry"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func logoGraph() domain.Graph {
	return dsl.New("Logo Design").
		Opening("Let's sketch your brand.").
		Details("Pricing: starts at 5k\nTimeline: 1-2 weeks (with buffer)").
		Ask("style").Label("Style").
		SingleSelect("Minimal", "Vintage", "Playful").
		Required().
		Patterns("minimal", "vintage", "playful").
		Say("Which style fits your brand?", "Pick a style: minimal, vintage or playful.").
		Ask("mascot").Label("Mascot").
		When(domain.Equals("style", "Playful")).
		Say("Should the logo have a mascot?").
		Ask("budget").Label("Budget").
		Required().
		Patterns("budget", "$").
		Say("What budget do you have in mind?").
		Ask("notes").Label("Notes").
		NoSharedContext().
		Say("Anything else we should know?").
		MustBuild()
}

func newEngine(t *testing.T, opts ...intake.Option) (*intake.Engine, *memory.ConversationStore) {
	t.Helper()
	reg, err := registry.New(logoGraph())
	require.NoError(t, err)

	store := memory.NewConversationStore(memory.WithClock(func() time.Time { return fixedNow }))
	base := []intake.Option{
		intake.WithRegistry(reg),
		intake.WithConversationStore(store),
		intake.WithClock(func() time.Time { return fixedNow }),
	}
	eng, err := intake.New(append(base, opts...)...)
	require.NoError(t, err)
	return eng, store
}

func TestEngine_Handle_FullDialogue(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	reply, err := eng.Handle(ctx, intake.Turn{Service: "logo design"})
	require.NoError(t, err)
	require.NotEmpty(t, reply.ConversationID)
	assert.Equal(t, "Logo Design", reply.Service)
	assert.Equal(t, "style", reply.Question)
	assert.Equal(t, []string{"Minimal", "Vintage", "Playful"}, reply.Suggestions)
	assert.True(t, strings.HasPrefix(reply.Message, "Let's sketch your brand.\n\n"))
	id := reply.ConversationID

	say := func(msg string) *intake.Reply {
		t.Helper()
		r, err := eng.Handle(ctx, intake.Turn{ConversationID: id, Message: msg})
		require.NoError(t, err)
		return r
	}

	r := say("something else entirely")
	assert.True(t, r.Retry)
	assert.Equal(t, "style", r.Question)
	assert.Contains(t, r.Message, "Pick a style: minimal, vintage or playful.")

	r = say("minimal")
	assert.False(t, r.Retry)
	assert.Equal(t, "budget", r.Question, "mascot only applies to playful logos")

	r = say("40k")
	assert.Equal(t, "notes", r.Question)

	r = say("skip")
	require.True(t, r.Done)
	require.NotNil(t, r.Proposal)
	assert.Equal(t, "Logo Design", r.Proposal.Service)
	assert.Equal(t, "40000", r.Proposal.Budget)
	assert.Equal(t, "1-2 weeks", r.Proposal.Timeline)
	assert.Equal(t, fixedNow, r.Proposal.CreatedAt)
	assert.Contains(t, r.Proposal.Text, "# Logo Design Proposal")

	again := say("hello?")
	assert.True(t, again.Done)
	assert.Equal(t, r.Proposal.Text, again.Proposal.Text)

	conv, err := eng.Conversation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Answers{"style": "Minimal", "budget": "40k"}, conv.State.Answers)
	assert.Equal(t, []string{"style", "budget", "notes"}, conv.State.Visited)

	msgs, err := eng.Messages(ctx, id, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 11)
	assert.Equal(t, domain.RoleAssistant, msgs[0].Role)
	assert.Equal(t, domain.RoleUser, msgs[1].Role)
	assert.Equal(t, "something else entirely", msgs[1].Content)

	last, err := eng.Messages(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, "hello?", last[0].Content)
}

func TestEngine_Handle_OutOfTurnFirstMessage(t *testing.T) {
	eng, _ := newEngine(t)

	reply, err := eng.Handle(context.Background(), intake.Turn{Service: "Logo Design", Message: "I'd love a vintage look"})
	require.NoError(t, err)
	assert.Equal(t, "budget", reply.Question)
	assert.True(t, strings.HasPrefix(reply.Message, "Let's sketch your brand."))

	conv, err := eng.Conversation(context.Background(), reply.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "Vintage", conv.State.Answers["style"])
}

func TestEngine_Handle_Errors(t *testing.T) {
	eng, store := newEngine(t, intake.WithMaxInputSize(16))
	ctx := context.Background()

	_, err := eng.Handle(ctx, intake.Turn{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidTurn)

	_, err = eng.Handle(ctx, intake.Turn{Service: "Tax Filing"})
	assert.ErrorIs(t, err, domain.ErrUnknownService)
	assert.True(t, intake.IsClientError(err))
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "unknown service must not create a conversation")

	_, err = eng.Handle(ctx, intake.Turn{ConversationID: "missing", Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	_, err = eng.Handle(ctx, intake.Turn{Service: "Logo Design", Message: "this message is far too long"})
	assert.ErrorIs(t, err, domain.ErrInvalidTurn)
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
}

func TestEngine_Handle_TwoConversationsNeverShareID(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	a, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design", SenderID: "userA"})
	require.NoError(t, err)
	b, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design", SenderID: "userA"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ConversationID, b.ConversationID)
}

func TestEngine_Handle_SharedContextPrefill(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	first, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design", SenderID: "u1"})
	require.NoError(t, err)
	for _, msg := range []string{"playful", "yes, a fox", "2 lakh", "none"} {
		first, err = eng.Handle(ctx, intake.Turn{ConversationID: first.ConversationID, SenderID: "u1", Message: msg})
		require.NoError(t, err)
	}
	require.True(t, first.Done)

	second, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design", SenderID: "u1"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ConversationID, second.ConversationID)
	assert.Equal(t, []string{"style", "mascot", "budget"}, second.Prefilled)
	assert.Equal(t, "notes", second.Question, "notes opt out of shared context")

	other, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design", SenderID: "u2"})
	require.NoError(t, err)
	assert.Empty(t, other.Prefilled)
	assert.Equal(t, "style", other.Question)
}

func TestEngine_Reset(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	reply, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design", SharedContextID: "tab-1"})
	require.NoError(t, err)
	id := reply.ConversationID

	_, err = eng.Handle(ctx, intake.Turn{ConversationID: id, SharedContextID: "tab-1", Message: "minimal"})
	require.NoError(t, err)

	require.NoError(t, eng.Reset(ctx, id))
	conv, err := eng.Conversation(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, conv.State.Answers)
	assert.NotEmpty(t, conv.Messages, "history survives a reset")

	reply, err = eng.Handle(ctx, intake.Turn{ConversationID: id, SharedContextID: "tab-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"style"}, reply.Prefilled)
	assert.Equal(t, "budget", reply.Question)

	assert.ErrorIs(t, eng.Reset(ctx, "missing"), domain.ErrConversationNotFound)
}

func TestEngine_PostAgentMessage(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	reply, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design"})
	require.NoError(t, err)

	msg, err := eng.PostAgentMessage(ctx, reply.ConversationID, "Hi, Priya from sales here.", intake.Sender{ID: "agent-7", Name: "Priya", Role: "sales"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, "Priya", msg.SenderName)

	conv, err := eng.Conversation(ctx, reply.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "style", conv.State.Cursor, "agent messages do not advance the dialogue")

	_, err = eng.PostAgentMessage(ctx, reply.ConversationID, "   ", intake.Sender{})
	assert.ErrorIs(t, err, domain.ErrInvalidTurn)

	_, err = eng.PostAgentMessage(ctx, "missing", "hello", intake.Sender{})
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestEngine_DeleteConversation(t *testing.T) {
	eng, _ := newEngine(t)
	ctx := context.Background()

	reply, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design"})
	require.NoError(t, err)

	require.NoError(t, eng.DeleteConversation(ctx, reply.ConversationID))
	_, err = eng.Conversation(ctx, reply.ConversationID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	assert.ErrorIs(t, eng.DeleteConversation(ctx, reply.ConversationID), domain.ErrConversationNotFound)
}

func TestEngine_Hooks(t *testing.T) {
	var asked, ready atomic.Int32
	eng, _ := newEngine(t, intake.WithLifecycleHooks(domain.LifecycleHooks{
		OnQuestionAsked: func(context.Context, *domain.DialogueEvent) { asked.Add(1) },
		OnProposalReady: func(context.Context, *domain.DialogueEvent) { ready.Add(1) },
	}))
	ctx := context.Background()

	reply, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design"})
	require.NoError(t, err)
	for _, msg := range []string{"vintage", "$500", "no preference"} {
		reply, err = eng.Handle(ctx, intake.Turn{ConversationID: reply.ConversationID, Message: msg})
		require.NoError(t, err)
	}
	require.True(t, reply.Done)
	assert.Equal(t, int32(3), asked.Load())
	assert.Equal(t, int32(1), ready.Load())
}

func TestEngine_ConcurrentConversations(t *testing.T) {
	eng, store := newEngine(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reply, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design", SenderID: fmt.Sprintf("user-%d", i)})
			if !assert.NoError(t, err) {
				return
			}
			for _, msg := range []string{"minimal", "10k", "skip"} {
				reply, err = eng.Handle(ctx, intake.Turn{ConversationID: reply.ConversationID, Message: msg})
				if !assert.NoError(t, err) {
					return
				}
			}
			assert.True(t, reply.Done)
		}(i)
	}
	wg.Wait()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, n)
}

// failingStore fails every SaveState call.
type failingStore struct {
	*memory.ConversationStore
}

func (s failingStore) SaveState(ctx context.Context, id string, state *domain.AssistantState) error {
	return errors.New("store unavailable")
}

func TestEngine_FailedFirstTurnDiscardsConversation(t *testing.T) {
	inner := memory.NewConversationStore()
	eng, _ := newEngine(t, intake.WithConversationStore(failingStore{inner}))
	ctx := context.Background()

	_, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design"})
	require.ErrorContains(t, err, "store unavailable")
	assert.False(t, intake.IsClientError(err))

	ids, err := inner.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "failed first turn must not leave a conversation behind")
}

func TestEngine_DefaultCatalog(t *testing.T) {
	eng, err := intake.New()
	require.NoError(t, err)

	assert.Equal(t, []string{
		catalog.WebsiteDevelopment,
		catalog.LeadGeneration,
		catalog.MobileAppDevelopment,
		catalog.SEOOptimization,
	}, eng.Services())

	g, err := eng.Graph("seo optimization")
	require.NoError(t, err)
	assert.Equal(t, catalog.SEOOptimization, g.Service)
}

func TestEngine_CleanupProposal(t *testing.T) {
	eng, _ := newEngine(t)
	out := eng.CleanupProposal("# Proposal\n-----\nBudget: [Amount]\nTimeline: not specified\n\n\nThanks")
	assert.Equal(t, out, eng.CleanupProposal(out))
	assert.NotContains(t, out, "[Amount]")
	assert.NotContains(t, out, "not specified")
}
