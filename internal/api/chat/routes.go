package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/message", h.SendMessage)
		r.Get("/history/{userId}", h.GetChatHistory)
		r.Get("/stats/{userId}", h.GetChatStats)
	})
}
