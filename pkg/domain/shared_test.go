package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSharedContextKey(t *testing.T) {
	tests := []struct {
		name   string
		id     SharedContextIdentity
		want   string
		wantOK bool
	}{
		{"Session Wins", SharedContextIdentity{SharedContextID: "tok", SenderID: "u1", ConversationID: "c1"}, "session:tok", true},
		{"User Over Conversation", SharedContextIdentity{SenderID: "u1", ConversationID: "c1"}, "user:u1", true},
		{"Conversation Fallback", SharedContextIdentity{ConversationID: "c1"}, "conversation:c1", true},
		{"Blank Is Empty", SharedContextIdentity{SharedContextID: "  ", SenderID: "u1"}, "user:u1", true},
		{"Anonymous", SharedContextIdentity{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SharedContextKey(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSharedContextEntry_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fresh := SharedContextEntry{UpdatedAt: now.Add(-time.Hour).UnixMilli()}
	stale := SharedContextEntry{UpdatedAt: now.Add(-7 * time.Hour).UnixMilli()}

	assert.False(t, fresh.Expired(now, DefaultSharedContextTTL))
	assert.True(t, stale.Expired(now, DefaultSharedContextTTL))
	assert.False(t, stale.Expired(now, 0))
}
