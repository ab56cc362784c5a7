package vector

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a stand-in vector backend for local development
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) IsConfigured() bool {
	return true
}

func (m *MockConnector) SearchSimilar(ctx context.Context, query string, topK int) ([]string, error) {
	ctxzap.Info(ctx, "[MOCK] performing vector search", zap.Int("top_k", topK))

	results := []string{
		fmt.Sprintf("Vector search result 1: %s", query),
		fmt.Sprintf("Vector search result 2: %s", query),
		fmt.Sprintf("Vector search result 3: %s", query),
	}
	if topK < len(results) {
		results = results[:topK]
	}

	return results, nil
}
