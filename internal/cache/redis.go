// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openbingo/wordbingo/internal/room"
)

// DefaultQueueName is the Redis list the server pushes audit records to
// and the historian drains.
const DefaultQueueName = "wordbingo_events"

// Publisher pushes committed room events onto a Redis list for the
// historian. It satisfies room.AuditSink.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// Connect initializes a Publisher from environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
//   - EVENT_QUEUE_NAME (optional)
func Connect(ctx context.Context) (*Publisher, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return &Publisher{
		rdb:   rdb,
		queue: getEnv("EVENT_QUEUE_NAME", DefaultQueueName),
	}, nil
}

// Publish serializes the record and pushes it onto the queue.
func (p *Publisher) Publish(ctx context.Context, rec room.AuditRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("rpush to %q: %w", p.queue, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
