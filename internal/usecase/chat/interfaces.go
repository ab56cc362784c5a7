package chat

import "context"

// CompletionConnector turns an assembled prompt into an answer
type CompletionConnector interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// VectorConnector is the optional similarity-search collaborator.
// Implementations must not panic across this boundary; errors are returned
// and the retriever decides how to degrade.
type VectorConnector interface {
	IsConfigured() bool
	SearchSimilar(ctx context.Context, query string, topK int) ([]string, error)
}
