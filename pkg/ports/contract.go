package ports

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunConversationStoreContract runs a suite of tests to verify that a
// ConversationStore implementation adheres to the interface contract.
// The store must be configured with a history limit of historyLimit.
func RunConversationStoreContract(t *testing.T, store ConversationStore, historyLimit int) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		conv, err := store.CreateConversation(ctx, domain.NewConversationParams{Service: "Website Development", CreatedByID: "user-1"})
		require.NoError(t, err)
		require.NotEmpty(t, conv.ID)
		assert.Nil(t, conv.State)
		assert.Empty(t, conv.Messages)

		loaded, err := store.GetConversation(ctx, conv.ID)
		require.NoError(t, err)
		assert.Equal(t, conv.ID, loaded.ID)
		assert.Equal(t, "Website Development", loaded.Service)
		assert.Equal(t, "user-1", loaded.CreatedByID)

		latest, ok, err := store.LatestForService(ctx, "Website Development")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, conv.ID, latest)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.GetConversation(ctx, "non-existent")
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})

	t.Run("Ensure Never Reuses By Service", func(t *testing.T) {
		params := domain.NewConversationParams{Service: "Lead Generation", CreatedByID: "userA"}
		first, err := store.EnsureConversation(ctx, params)
		require.NoError(t, err)
		second, err := store.EnsureConversation(ctx, params)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Ensure Returns Existing", func(t *testing.T) {
		conv, err := store.CreateConversation(ctx, domain.NewConversationParams{Service: "Lead Generation"})
		require.NoError(t, err)
		again, err := store.EnsureConversation(ctx, domain.NewConversationParams{ID: conv.ID, Service: "Other"})
		require.NoError(t, err)
		assert.Equal(t, conv.ID, again.ID)
		assert.Equal(t, "Lead Generation", again.Service)
	})

	t.Run("Add Message To Missing Conversation", func(t *testing.T) {
		_, err := store.AddMessage(ctx, domain.NewMessageParams{ConversationID: "missing", Role: domain.RoleUser, Content: "hi"})
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})

	t.Run("Messages FIFO Bound", func(t *testing.T) {
		conv, err := store.CreateConversation(ctx, domain.NewConversationParams{})
		require.NoError(t, err)

		total := historyLimit + 17
		for i := 0; i < total; i++ {
			msg, err := store.AddMessage(ctx, domain.NewMessageParams{
				ConversationID: conv.ID,
				Role:           domain.RoleUser,
				Content:        fmt.Sprintf("msg-%d", i),
			})
			require.NoError(t, err)
			assert.NotEmpty(t, msg.ID)
		}

		msgs, err := store.ListMessages(ctx, conv.ID, 0)
		require.NoError(t, err)
		require.Len(t, msgs, historyLimit)
		for i, m := range msgs {
			assert.Equal(t, fmt.Sprintf("msg-%d", total-historyLimit+i), m.Content)
		}

		recent, err := store.ListMessages(ctx, conv.ID, 3)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		assert.Equal(t, fmt.Sprintf("msg-%d", total-3), recent[0].Content)
		assert.Equal(t, fmt.Sprintf("msg-%d", total-1), recent[2].Content)
	})

	t.Run("Agent Sender Fields", func(t *testing.T) {
		conv, err := store.CreateConversation(ctx, domain.NewConversationParams{})
		require.NoError(t, err)
		_, err = store.AddMessage(ctx, domain.NewMessageParams{
			ConversationID: conv.ID,
			Role:           domain.RoleAssistant,
			Content:        "Hi, I'm Priya from the team.",
			SenderID:       "agent-7",
			SenderName:     "Priya",
			SenderRole:     "project_manager",
		})
		require.NoError(t, err)

		msgs, err := store.ListMessages(ctx, conv.ID, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "agent-7", msgs[0].SenderID)
		assert.Equal(t, "Priya", msgs[0].SenderName)
		assert.Equal(t, "project_manager", msgs[0].SenderRole)
		assert.Equal(t, conv.ID, msgs[0].ConversationID)
	})

	t.Run("Save State", func(t *testing.T) {
		conv, err := store.CreateConversation(ctx, domain.NewConversationParams{Service: "SEO Optimization"})
		require.NoError(t, err)

		state := domain.NewAssistantState()
		state.Answers.Set("budget", "40k")
		state.Answers.Accumulate("channels", "Email", "Ads")
		state.Cursor = "timeline"
		require.NoError(t, store.SaveState(ctx, conv.ID, state))

		state.Answers.Set("budget", "mutated")

		loaded, err := store.GetConversation(ctx, conv.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.State)
		assert.Equal(t, "40k", loaded.State.Answers.String("budget"))
		assert.Equal(t, []string{"Email", "Ads"}, loaded.State.Answers.Values("channels"))
		assert.Equal(t, "timeline", loaded.State.Cursor)

		err = store.SaveState(ctx, "missing", state)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		conv, err := store.CreateConversation(ctx, domain.NewConversationParams{Service: "Delete Me"})
		require.NoError(t, err)

		deleted, err := store.DeleteConversation(ctx, conv.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = store.GetConversation(ctx, conv.ID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)

		_, ok, err := store.LatestForService(ctx, "Delete Me")
		require.NoError(t, err)
		assert.False(t, ok, "service index should be cleared")

		deleted, err = store.DeleteConversation(ctx, conv.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("Delete Keeps Newer Index Entry", func(t *testing.T) {
		older, err := store.CreateConversation(ctx, domain.NewConversationParams{Service: "Keep Index"})
		require.NoError(t, err)
		newer, err := store.CreateConversation(ctx, domain.NewConversationParams{Service: "Keep Index"})
		require.NoError(t, err)

		_, err = store.DeleteConversation(ctx, older.ID)
		require.NoError(t, err)

		latest, ok, err := store.LatestForService(ctx, "Keep Index")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, newer.ID, latest)
	})
}

// RunSharedContextStoreContract verifies a SharedContextStore implementation.
func RunSharedContextStoreContract(t *testing.T, store SharedContextStore) {
	ctx := context.Background()

	t.Run("Get Missing", func(t *testing.T) {
		got, err := store.Get(ctx, "user:nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Deep Copy On Read And Write", func(t *testing.T) {
		snapshot := map[string]any{
			"budget":   "40k",
			"channels": []any{"Email"},
		}
		require.NoError(t, store.Set(ctx, "user:a", snapshot))
		snapshot["budget"] = "mutated-after-set"

		got, err := store.Get(ctx, "user:a")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "40k", got["budget"])

		got["budget"] = "mutated-after-get"
		got["channels"].([]any)[0] = "Ads"

		again, err := store.Get(ctx, "user:a")
		require.NoError(t, err)
		assert.Equal(t, "40k", again["budget"])
		assert.Equal(t, "Email", again["channels"].([]any)[0])
	})

	t.Run("Last Write Wins", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "session:x", map[string]any{"budget": "10k"}))
		require.NoError(t, store.Set(ctx, "session:x", map[string]any{"timeline": "2 weeks"}))

		got, err := store.Get(ctx, "session:x")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"timeline": "2 weeks"}, got)
	})
}
