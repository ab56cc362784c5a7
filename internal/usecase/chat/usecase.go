package chat

import (
	"context"
	"strings"
	"time"

	"github.com/finwise/chatbot-backend/internal/entity"
	"github.com/finwise/chatbot-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Fixed user-facing strings. These are part of the service contract and must
// not vary per request.
const (
	// completionFallbackAnswer is returned when the completion service fails;
	// the request still succeeds from the caller's point of view.
	completionFallbackAnswer = "I'm sorry, I'm having trouble processing your request right now. Please try again later."

	// pipelineFallbackAnswer is returned when a required pipeline dependency
	// fails outright (e.g. keyword retrieval).
	pipelineFallbackAnswer = "I'm sorry, I encountered an error while processing your message. Please try again."
)

// ChatUsecase runs the message-processing pipeline:
// rate limit -> sanitize -> retrieve -> build prompt -> complete -> log.
type ChatUsecase struct {
	rateLimiter    *RateLimiter
	sanitizer      *Sanitizer
	retriever      *SourceRetriever
	completionConn CompletionConnector
	chatLogRepo    repository.ChatLogRepository
	topK           int
	logger         *zap.Logger
}

func NewUsecase(
	rateLimiter *RateLimiter,
	sanitizer *Sanitizer,
	retriever *SourceRetriever,
	completionConn CompletionConnector,
	chatLogRepo repository.ChatLogRepository,
	topK int,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		rateLimiter:    rateLimiter,
		sanitizer:      sanitizer,
		retriever:      retriever,
		completionConn: completionConn,
		chatLogRepo:    chatLogRepo,
		topK:           topK,
		logger:         logger,
	}
}

// ProcessMessage runs one message through the pipeline. It terminates at the
// first applicable exit:
//   - blank message: entity.ErrEmptyMessage
//   - rate limiter denies: entity.ErrRateLimited
//   - PII detected: *entity.PiiDetectedError carrying the redacted text;
//     retrieval, completion and logging never see the message
//
// Downstream failures never surface as errors: completion failure degrades to
// a fixed fallback answer, and a chat-log write failure only reaches the
// operational log.
func (uc *ChatUsecase) ProcessMessage(ctx context.Context, userID int64, message string) (*entity.ChatResult, error) {
	start := time.Now()

	if strings.TrimSpace(message) == "" {
		return nil, entity.ErrEmptyMessage
	}

	if !uc.rateLimiter.Admit(userID) {
		ctxzap.Warn(ctx, "rate limit exceeded")
		return nil, entity.ErrRateLimited
	}

	sanitization := uc.sanitizer.Sanitize(message)
	if sanitization.PiiFound {
		// Category tags are safe to log; the matched content is not.
		ctxzap.Warn(ctx, "PII detected in message",
			zap.Any("detected_kinds", sanitization.DetectedKinds),
		)
		return nil, &entity.PiiDetectedError{
			SanitizedMessage: sanitization.SanitizedMessage,
			DetectedKinds:    sanitization.DetectedKinds,
		}
	}

	sources, err := uc.retriever.Retrieve(ctx, sanitization.SanitizedMessage, uc.topK)
	if err != nil {
		ctxzap.Error(ctx, "source retrieval failed", zap.Error(err))
		return &entity.ChatResult{Answer: pipelineFallbackAnswer}, nil
	}

	prompt := BuildPrompt(sanitization.SanitizedMessage, sources)

	answer, err := uc.completionConn.Complete(ctx, prompt)
	if err != nil {
		ctxzap.Error(ctx, "completion failed, returning fallback answer", zap.Error(err))
		answer = completionFallbackAnswer
	}

	uc.logInteraction(ctx, userID, message, answer, sources, prompt, start)

	return &entity.ChatResult{
		Answer:           answer,
		Sources:          sources,
		SanitizedMessage: sanitization.SanitizedMessage,
	}, nil
}

// logInteraction persists the exchange. Failures are reported to the
// operational log and never alter the response already computed.
func (uc *ChatUsecase) logInteraction(ctx context.Context, userID int64, query, answer string, sources []string, prompt string, start time.Time) {
	chatLog := &entity.ChatLog{
		ID:             uuid.New().String(),
		UserID:         userID,
		Query:          query,
		Answer:         answer,
		Sources:        strings.Join(sources, ";"),
		Timestamp:      time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
		// Rough 4-chars-per-token estimate; the completion service does not
		// report exact usage through this contract.
		TokensUsed: (len(prompt) + len(answer)) / 4,
	}

	if err := uc.chatLogRepo.CreateChatLog(ctx, chatLog); err != nil {
		ctxzap.Error(ctx, "failed to log chat interaction", zap.Error(err))
		return
	}

	ctxzap.Debug(ctx, "chat interaction logged",
		zap.Int("query_length", len(query)),
		zap.Int("answer_length", len(answer)),
	)
}

// GetChatHistory returns the user's chat logs, newest first
func (uc *ChatUsecase) GetChatHistory(ctx context.Context, userID int64) ([]entity.ChatLog, error) {
	return uc.chatLogRepo.GetChatLogsByUserID(ctx, userID)
}

// GetChatStats aggregates a user's chat history
func (uc *ChatUsecase) GetChatStats(ctx context.Context, userID int64) (*entity.ChatStats, error) {
	logs, err := uc.chatLogRepo.GetChatLogsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &entity.ChatStats{
		UserID:        userID,
		TotalMessages: len(logs),
		LastUpdated:   time.Now(),
	}
	for _, log := range logs {
		stats.TotalQueryLength += len(log.Query)
		stats.TotalAnswerLength += len(log.Answer)
	}

	return stats, nil
}
