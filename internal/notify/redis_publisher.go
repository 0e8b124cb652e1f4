package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Envelope is the JSON message published for every event.
type Envelope struct {
	ID          string      `json:"id"`
	Event       string      `json:"event"`
	Payload     interface{} `json:"payload"`
	PublishedAt time.Time   `json:"published_at"`
}

// RedisPublisher publishes events on redis channels named <prefix>:<event>.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient builds a client with the pool and timeout settings the
// publisher expects.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the redis channel for an event.
func (p *RedisPublisher) Channel(event string) string {
	if p.prefix == "" {
		return event
	}
	return p.prefix + ":" + event
}

func (p *RedisPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	body, err := json.Marshal(Envelope{
		ID:          uuid.NewString(),
		Event:       event,
		Payload:     payload,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event, err)
	}
	if err := p.client.Publish(ctx, p.Channel(event), body).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event, err)
	}
	return nil
}
