package entity

// VectorSearchRequest is the payload sent to the vector similarity service
type VectorSearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// VectorMatch is a single similar snippet
type VectorMatch struct {
	Text  string  `json:"text"`
	Score float64 `json:"score,omitempty"`
}

// VectorSearchResponse is the vector service result envelope
type VectorSearchResponse struct {
	Matches []VectorMatch `json:"matches"`
}
