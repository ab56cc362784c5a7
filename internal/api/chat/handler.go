package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/finwise/chatbot-backend/internal/entity"
	"github.com/finwise/chatbot-backend/internal/pkg/logger"
	"github.com/finwise/chatbot-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// SendMessage handles POST /api/chat/message - run a message through the
// pipeline and return the answer
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SendMessage")

	var req entity.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == nil {
		response.JSON(w, http.StatusBadRequest, entity.ChatMessageResponse{
			Answer: missingUserIDMessage,
		})
		return
	}

	ctx = logger.WithUser(ctx, *req.UserID)

	result, err := h.usecase.ProcessMessage(ctx, *req.UserID, req.Message)
	if err != nil {
		h.respondPipelineError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, toChatMessageResponse(result))
}

// respondPipelineError maps pipeline exits to HTTP statuses while keeping the
// original answer/sanitizedMessage body shape.
func (h *Handler) respondPipelineError(ctx context.Context, w http.ResponseWriter, err error) {
	var piiErr *entity.PiiDetectedError

	switch {
	case errors.Is(err, entity.ErrEmptyMessage):
		response.JSON(w, http.StatusBadRequest, entity.ChatMessageResponse{
			Answer: emptyMessageMessage,
		})
	case errors.Is(err, entity.ErrRateLimited):
		response.JSON(w, http.StatusTooManyRequests, entity.ChatMessageResponse{
			Answer: rateLimitMessage,
		})
	case errors.As(err, &piiErr):
		response.JSON(w, http.StatusUnprocessableEntity, entity.ChatMessageResponse{
			Answer:           piiRefusalMessage,
			SanitizedMessage: piiErr.SanitizedMessage,
		})
	default:
		ctxzap.Error(ctx, "unexpected pipeline error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "an error occurred while processing your message")
	}
}

// GetChatHistory handles GET /api/chat/history/{userId} - user's chat logs,
// newest first
func (h *Handler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetChatHistory")

	userID, ok := h.parseUserID(ctx, w, r)
	if !ok {
		return
	}

	logs, err := h.usecase.GetChatHistory(ctx, userID)
	if err != nil {
		ctxzap.Error(ctx, "failed to fetch chat history", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to fetch chat history")
		return
	}

	response.Success(w, toChatLogDTOs(logs))
}

// GetChatStats handles GET /api/chat/stats/{userId} - aggregate usage stats
func (h *Handler) GetChatStats(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetChatStats")

	userID, ok := h.parseUserID(ctx, w, r)
	if !ok {
		return
	}

	stats, err := h.usecase.GetChatStats(ctx, userID)
	if err != nil {
		ctxzap.Error(ctx, "failed to fetch chat stats", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to fetch chat stats")
		return
	}

	response.Success(w, stats)
}

func (h *Handler) parseUserID(ctx context.Context, w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userId")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ctxzap.Warn(ctx, "invalid user ID in path", zap.String("user_id", raw))
		response.Error(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return userID, true
}
