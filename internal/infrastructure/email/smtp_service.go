package email

import (
	"context"
	"fmt"
	"net/smtp"

	"reviewhub-backend/pkg/logger"
)

// ConfirmationCodeData carries everything needed to deliver a
// registration confirmation code.
type ConfirmationCodeData struct {
	Email     string
	Code      string
	ExpiresIn string
}

type EmailService interface {
	SendConfirmationCode(ctx context.Context, data ConfirmationCodeData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendConfirmationCode(ctx context.Context, data ConfirmationCodeData) error {
	subject := "Your ReviewHub confirmation code"
	body := fmt.Sprintf(`Thank you for registering at ReviewHub.

Your confirmation code is %s. Use it to obtain an access token.

The code is valid for %s. If you did not request this, ignore this email.`,
		data.Code, data.ExpiresIn)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg)
	if err != nil {
		logger.Error("Failed to send confirmation email", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Confirmation email sent", map[string]interface{}{
		"to": data.Email,
	})

	return nil
}
