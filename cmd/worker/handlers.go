package main

import (
	"context"

	"github.com/hibiken/asynq"

	"reviewhub-backend/internal/config"
	"reviewhub-backend/internal/infrastructure/email"
	"reviewhub-backend/internal/infrastructure/queue"
	"reviewhub-backend/internal/infrastructure/queue/handlers"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	confirmationCode func(ctx context.Context, t *asynq.Task) error
}

// initializeHandlers creates all job handlers with their dependencies.
func initializeHandlers(cfg *config.Config) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)

	return &HandlerRegistry{
		confirmationCode: handlers.ConfirmationCodeHandler(emailSvc),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeSendConfirmationCode, h.confirmationCode)
}
