package domain

import (
	"strings"
	"time"
)

// DefaultSharedContextTTL is how long a shared context entry stays valid.
const DefaultSharedContextTTL = 6 * time.Hour

// SharedContextIdentity carries the identifiers a shared context key can be derived from.
type SharedContextIdentity struct {
	SharedContextID string
	SenderID        string
	ConversationID  string
}

// SharedContextKey derives the shared context key with priority
// explicit session token > user ID > conversation ID. The first non-empty
// identifier wins. It returns false when all three are empty.
func SharedContextKey(id SharedContextIdentity) (string, bool) {
	switch {
	case strings.TrimSpace(id.SharedContextID) != "":
		return "session:" + strings.TrimSpace(id.SharedContextID), true
	case strings.TrimSpace(id.SenderID) != "":
		return "user:" + strings.TrimSpace(id.SenderID), true
	case strings.TrimSpace(id.ConversationID) != "":
		return "conversation:" + strings.TrimSpace(id.ConversationID), true
	}
	return "", false
}

// SharedContextEntry is a stored cross-conversation snapshot.
type SharedContextEntry struct {
	Context   map[string]any `json:"context"`
	UpdatedAt int64          `json:"updated_at"` // epoch milliseconds
}

// Expired reports whether the entry is older than ttl at now.
func (e SharedContextEntry) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.UnixMilli()-e.UpdatedAt > ttl.Milliseconds()
}
