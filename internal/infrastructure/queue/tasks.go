package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types routed through the worker.
const (
	TypeSendConfirmationCode = "email:confirmation_code"
)

// ConfirmationCodePayload is the payload for TypeSendConfirmationCode.
type ConfirmationCodePayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Enqueuer is the notification boundary the user service talks to.
// Delivery is fire-and-forget; the worker owns retries.
type Enqueuer interface {
	EnqueueConfirmationCode(ctx context.Context, email, code string) error
}

// Client wraps an asynq client for task submission.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, redisPassword string, redisDB int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

func (c *Client) EnqueueConfirmationCode(ctx context.Context, email, code string) error {
	payload, err := json.Marshal(ConfirmationCodePayload{Email: email, Code: code})
	if err != nil {
		return fmt.Errorf("marshal confirmation code payload: %w", err)
	}

	task := asynq.NewTask(TypeSendConfirmationCode, payload)
	if _, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue("high"),
		asynq.MaxRetry(5),
	); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeSendConfirmationCode, err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
