package completion

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/finwise/chatbot-backend/internal/config"
	"github.com/finwise/chatbot-backend/internal/entity"
	"github.com/finwise/chatbot-backend/internal/integration/common"
	pkghttp "github.com/finwise/chatbot-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.CompletionConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.CompletionConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends the assembled prompt to the completion service and returns
// the generated answer text. Transient failures are retried per the
// configured policy; the final error is returned for the caller to degrade.
func (c *Connector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Debug(ctx, "calling completion service",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	req := &entity.CompletionRequest{
		Model:  c.config.Model,
		Prompt: prompt,
	}

	resp, err := retry.DoWithData(func() (*entity.CompletionResponse, error) {
		var rawResp entity.CompletionResponse
		if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompleteEndpoint, req, &rawResp); err != nil {
			return nil, err
		}
		return &rawResp, nil
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if resp.Text == "" {
		return "", fmt.Errorf("invalid completion response: empty or missing text field")
	}

	ctxzap.Debug(ctx, "completion received",
		zap.Int("answer_length", len(resp.Text)),
		zap.Int("tokens_used", resp.TokensUsed),
	)

	return resp.Text, nil
}
