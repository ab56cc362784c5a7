package entity

import "time"

// PiiKind tags a category of personally identifiable information
type PiiKind string

const (
	PiiKindEmail PiiKind = "EMAIL"
	PiiKindPhone PiiKind = "PHONE"
	PiiKindSSN   PiiKind = "SSN"
)

// SanitizationResult is the outcome of running the PII detectors over one
// message. Immutable after construction; DetectedKinds keeps first-detection
// order with no duplicates.
type SanitizationResult struct {
	SanitizedMessage string
	PiiFound         bool
	DetectedKinds    []PiiKind
}

// KnowledgeDoc is a row of the curated finance knowledge base
type KnowledgeDoc struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Tags           string    `json:"tags"`
	Category       string    `json:"category"`
	RelevanceScore float64   `json:"relevance_score"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ChatLog is one persisted user/assistant exchange
type ChatLog struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	Query          string    `json:"query"`
	Answer         string    `json:"answer"`
	Sources        string    `json:"sources"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	TokensUsed     int       `json:"tokens_used"`
}

// ChatStats aggregates a user's chat history
type ChatStats struct {
	UserID            int64     `json:"user_id"`
	TotalMessages     int       `json:"total_messages"`
	TotalQueryLength  int       `json:"total_query_length"`
	TotalAnswerLength int       `json:"total_answer_length"`
	LastUpdated       time.Time `json:"last_updated"`
}
