package chat

import (
	"context"

	"github.com/finwise/chatbot-backend/internal/entity"
)

type ChatUsecase interface {
	ProcessMessage(ctx context.Context, userID int64, message string) (*entity.ChatResult, error)
	GetChatHistory(ctx context.Context, userID int64) ([]entity.ChatLog, error)
	GetChatStats(ctx context.Context, userID int64) (*entity.ChatStats, error)
}
