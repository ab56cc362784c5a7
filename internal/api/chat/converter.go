package chat

import (
	"time"

	"github.com/finwise/chatbot-backend/internal/entity"
)

// Fixed user-facing messages for pipeline exits
const (
	missingUserIDMessage = "User ID is required"
	emptyMessageMessage  = "Message cannot be empty"
	rateLimitMessage     = "Rate limit exceeded. Please wait before sending another message."
	piiRefusalMessage    = "I can't process PII — please remove personal information."
)

func toChatMessageResponse(result *entity.ChatResult) entity.ChatMessageResponse {
	return entity.ChatMessageResponse{
		Answer:           result.Answer,
		Sources:          result.Sources,
		SanitizedMessage: result.SanitizedMessage,
	}
}

// ChatLogDTO is the wire shape of one history entry
type ChatLogDTO struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"userId"`
	Query          string    `json:"query"`
	Answer         string    `json:"answer"`
	Sources        string    `json:"sources"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	TokensUsed     int       `json:"tokensUsed"`
}

func toChatLogDTOs(logs []entity.ChatLog) []ChatLogDTO {
	dtos := make([]ChatLogDTO, 0, len(logs))
	for _, log := range logs {
		dtos = append(dtos, ChatLogDTO{
			ID:             log.ID,
			UserID:         log.UserID,
			Query:          log.Query,
			Answer:         log.Answer,
			Sources:        log.Sources,
			Timestamp:      log.Timestamp,
			ResponseTimeMs: log.ResponseTimeMs,
			TokensUsed:     log.TokensUsed,
		})
	}
	return dtos
}
