package model

import "time"

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one side of a chat turn.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// RelatedConditions holds the ids of the conditions used to ground an
	// assistant reply. It is nil for user messages.
	RelatedConditions []string `json:"relatedConditions"`
}

// SearchQueryLog records one executed query.
type SearchQueryLog struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	ResultsCount int       `json:"resultsCount"`
	Timestamp    time.Time `json:"timestamp"`
}
