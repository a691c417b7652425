package state

import (
	"fmt"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// MaxHistory is the number of messages retained per session.
	MaxHistory = 20

	maxRecentSearches = 5
)

// ConversationContext is the per-session state persisted between turns.
type ConversationContext struct {
	SessionID          string        `json:"session_id"`
	Intent             string        `json:"intent"`
	MessageHistory     []ChatMessage `json:"message_history"`
	PreviousResponseID string        `json:"previous_response_id,omitempty"`
	LastActivity       time.Time     `json:"last_activity"`

	LastDesignation string   `json:"last_designation,omitempty"`
	RecentSearches  []string `json:"recent_searches,omitempty"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata,omitempty"`
}

func NewConversationContext(sessionID string, now time.Time) *ConversationContext {
	return &ConversationContext{
		SessionID:      sessionID,
		Intent:         "question",
		MessageHistory: make([]ChatMessage, 0, MaxHistory),
		LastActivity:   now.UTC(),
	}
}

// Tail returns up to n most recent messages in chronological order.
func (c *ConversationContext) Tail(n int) []ChatMessage {
	if c == nil || n <= 0 || len(c.MessageHistory) == 0 {
		return nil
	}
	if n > len(c.MessageHistory) {
		n = len(c.MessageHistory)
	}
	return c.MessageHistory[len(c.MessageHistory)-n:]
}

// AppendTurn records one user utterance and its reply, then trims history to
// MaxHistory keeping the newest entries.
func (c *ConversationContext) AppendTurn(userText, reply, queryType, source string, now time.Time) {
	now = now.UTC()
	c.MessageHistory = append(c.MessageHistory,
		ChatMessage{
			Role:      RoleUser,
			Content:   userText,
			Timestamp: now,
		},
		ChatMessage{
			Role:      RoleAssistant,
			Content:   reply,
			Timestamp: now,
			Metadata:  fmt.Sprintf("Type:%s, Source:%s", queryType, source),
		},
	)
	c.trimHistory()
	c.LastActivity = now
}

func (c *ConversationContext) trimHistory() {
	if len(c.MessageHistory) <= MaxHistory {
		return
	}
	kept := make([]ChatMessage, MaxHistory)
	copy(kept, c.MessageHistory[len(c.MessageHistory)-MaxHistory:])
	c.MessageHistory = kept
}

// RememberSearch keeps the last few distinct search queries, most recent last.
func (c *ConversationContext) RememberSearch(query string) {
	if query == "" {
		return
	}
	for i, existing := range c.RecentSearches {
		if existing == query {
			c.RecentSearches = append(c.RecentSearches[:i], c.RecentSearches[i+1:]...)
			break
		}
	}
	c.RecentSearches = append(c.RecentSearches, query)
	if len(c.RecentSearches) > maxRecentSearches {
		c.RecentSearches = c.RecentSearches[len(c.RecentSearches)-maxRecentSearches:]
	}
}
