package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"reviewhub-backend/internal/config"
	"reviewhub-backend/internal/infrastructure/email"
	"reviewhub-backend/internal/infrastructure/queue"
)

// ConfirmationCodeHandler delivers the registration confirmation code.
func ConfirmationCodeHandler(emailSvc email.EmailService) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p queue.ConfirmationCodePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			// Malformed payload will never succeed, skip retry.
			return asynq.SkipRetry
		}

		data := email.ConfirmationCodeData{
			Email:     p.Email,
			Code:      p.Code,
			ExpiresIn: fmt.Sprintf("%d minutes", config.ConfirmationCodeTTLMinutes),
		}

		// Network/SMTP errors are retryable.
		return emailSvc.SendConfirmationCode(ctx, data)
	}
}
