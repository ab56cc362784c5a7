package repository

import (
	"context"
	"fmt"

	"github.com/finwise/chatbot-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatLogRepository defines the interface for chat interaction persistence
type ChatLogRepository interface {
	CreateChatLog(ctx context.Context, log *entity.ChatLog) error
	GetChatLogsByUserID(ctx context.Context, userID int64) ([]entity.ChatLog, error)
}

var _ ChatLogRepository = &ChatLogPostgres{}

// ChatLogPostgres implements ChatLogRepository using PostgreSQL
type ChatLogPostgres struct {
	db *pgxpool.Pool
}

func NewChatLogPostgres(db *pgxpool.Pool) *ChatLogPostgres {
	return &ChatLogPostgres{db: db}
}

const createChatLogQuery = `
INSERT INTO chat_logs (id, user_id, query, answer, sources, timestamp, response_time_ms, tokens_used)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// CreateChatLog persists one completed exchange
func (r *ChatLogPostgres) CreateChatLog(ctx context.Context, log *entity.ChatLog) error {
	logID, err := uuid.Parse(log.ID)
	if err != nil {
		return fmt.Errorf("invalid chat log ID: %w", err)
	}

	_, err = r.db.Exec(ctx, createChatLogQuery,
		logID,
		log.UserID,
		log.Query,
		log.Answer,
		log.Sources,
		log.Timestamp,
		log.ResponseTimeMs,
		log.TokensUsed,
	)
	if err != nil {
		return fmt.Errorf("create chat log: %w", err)
	}

	return nil
}

const chatLogsByUserQuery = `
SELECT id, user_id, query, answer, sources, timestamp, response_time_ms, tokens_used
FROM chat_logs
WHERE user_id = $1
ORDER BY timestamp DESC`

// GetChatLogsByUserID returns a user's chat history, newest first
func (r *ChatLogPostgres) GetChatLogsByUserID(ctx context.Context, userID int64) ([]entity.ChatLog, error) {
	rows, err := r.db.Query(ctx, chatLogsByUserQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("get chat logs: %w", err)
	}
	defer rows.Close()

	var logs []entity.ChatLog
	for rows.Next() {
		var log entity.ChatLog
		var logID uuid.UUID
		if err := rows.Scan(
			&logID,
			&log.UserID,
			&log.Query,
			&log.Answer,
			&log.Sources,
			&log.Timestamp,
			&log.ResponseTimeMs,
			&log.TokensUsed,
		); err != nil {
			return nil, fmt.Errorf("scan chat log: %w", err)
		}
		log.ID = logID.String()
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat logs: %w", err)
	}

	return logs, nil
}
