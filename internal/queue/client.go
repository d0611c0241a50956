package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Client enqueues background work for the worker process.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

// EnqueueFeaturedEmail schedules the featured notification for delivery.
// Delivery is best-effort; the caller treats a failed enqueue as non-fatal.
func (c *Client) EnqueueFeaturedEmail(authorID uint) error {
	payload, err := json.Marshal(FeaturedEmailPayload{AuthorID: authorID})
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(asynq.NewTask(TypeFeaturedEmail, payload), asynq.MaxRetry(3))
	return err
}

func (c *Client) Close() error {
	return c.client.Close()
}
