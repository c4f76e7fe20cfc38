package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/altonotch/dilli/internal/model"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Client{client}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}

// SessionKey addresses a single session record by id.
func SessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// ActiveSessionKey is the per-user pointer to the active session of a flow
// kind; at most one exists per (user, kind).
func ActiveSessionKey(userID string, kind model.FlowKind) string {
	return fmt.Sprintf("session:active:%s:%s", kind, userID)
}
