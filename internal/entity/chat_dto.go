package entity

// ChatMessageRequest is the inbound payload of POST /api/chat/message
type ChatMessageRequest struct {
	UserID  *int64 `json:"userId"`
	Message string `json:"message"`
}

// ChatMessageResponse is the outbound payload of POST /api/chat/message.
// Sources and the sanitized message are omitted when a stage short-circuits
// the pipeline.
type ChatMessageResponse struct {
	Answer           string   `json:"answer"`
	Sources          []string `json:"sources,omitempty"`
	SanitizedMessage string   `json:"sanitizedMessage,omitempty"`
}

// ChatResult is what the pipeline hands back to the API layer on success
type ChatResult struct {
	Answer           string
	Sources          []string
	SanitizedMessage string
}
