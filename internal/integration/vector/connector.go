package vector

import (
	"context"
	"net/http"
	"strings"

	"github.com/finwise/chatbot-backend/internal/config"
	"github.com/finwise/chatbot-backend/internal/entity"
	"github.com/finwise/chatbot-backend/internal/integration/common"
	pkghttp "github.com/finwise/chatbot-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.VectorConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VectorConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// IsConfigured reports whether the vector service can be called at all:
// the feature flag is on and both the service URL and credential are set.
// "Not configured" is distinct from "configured but failing"; the retriever
// treats both as zero results but logs them differently.
func (c *Connector) IsConfigured() bool {
	return c.config.Enabled &&
		strings.TrimSpace(c.config.Url) != "" &&
		strings.TrimSpace(c.config.Token) != ""
}

// SearchSimilar returns up to topK snippet texts similar to the query.
// The context passed in carries the retrieval deadline.
func (c *Connector) SearchSimilar(ctx context.Context, query string, topK int) ([]string, error) {
	ctxzap.Debug(ctx, "performing vector search", zap.Int("top_k", topK))

	req := &entity.VectorSearchRequest{
		Query: query,
		TopK:  topK,
	}

	var resp entity.VectorSearchResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.SearchEndpoint, req, &resp); err != nil {
		return nil, err
	}

	results := make([]string, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		if match.Text != "" {
			results = append(results, match.Text)
		}
	}

	ctxzap.Debug(ctx, "vector search completed", zap.Int("result_count", len(results)))

	return results, nil
}
