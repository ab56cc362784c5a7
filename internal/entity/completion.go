package entity

// CompletionRequest is the payload sent to the completion service
type CompletionRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// CompletionResponse is the completion service answer envelope
type CompletionResponse struct {
	Text       string `json:"text"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}
