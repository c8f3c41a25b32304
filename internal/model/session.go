package model

import "time"

// SessionSummary is produced by the chat assistant when a session closes and
// read back at the start of the next one.
type SessionSummary struct {
	ID               string               `json:"id,omitempty"`
	UserID           string               `json:"user_id"`
	Summary          string               `json:"summary"`
	KeyTopics        []string             `json:"key_topics,omitempty"`
	EmotionalState   string               `json:"emotional_state,omitempty"`
	UserNeeds        []string             `json:"user_needs,omitempty"`
	ImportantContext string               `json:"important_context,omitempty"`
	PermaInsights    map[Dimension]string `json:"perma_insights,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}
