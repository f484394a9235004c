// cmd/historian/main.go is an asynchronous consumer that pops audit
// records from the Redis event queue and persists them to postgres in
// batches, keeping the hot path of the game server free of archive
// writes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/openbingo/wordbingo/internal/cache"
	"github.com/openbingo/wordbingo/internal/database"
	"github.com/openbingo/wordbingo/internal/room"
)

// HistorianService drains the Redis audit queue into the game_events
// table.
type HistorianService struct {
	redisClient *redis.Client
	pool        *pgxpool.Pool
	batchSize   int
	flushDelay  time.Duration

	batchMu sync.Mutex
	batch   []room.AuditRecord

	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorianService constructs the service from environment variables
// or defaults.
func NewHistorianService(pool *pgxpool.Pool) *HistorianService {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &HistorianService{
		redisClient: rdb,
		pool:        pool,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]room.AuditRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run blocks on the queue-draining loop until the context ends.
func (hs *HistorianService) Run() {
	go hs.readRedisLoop()

	log.Println("wordbingo-historian service started.")
	<-hs.ctx.Done()
	hs.flushBatchToDB()
	log.Println("wordbingo-historian shutting down.")
}

// Stop cancels the service context.
func (hs *HistorianService) Stop() {
	hs.cancelFn()
}

// readRedisLoop continuously BLPops records from the queue, batching
// them and flushing on size or on a timer.
func (hs *HistorianService) readRedisLoop() {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("EVENT_QUEUE_NAME", cache.DefaultQueueName)

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			hs.flushBatchToDB()

		default:
			// BLPop with a short timeout so cancellation is noticed.
			res, err := hs.redisClient.BLPop(hs.ctx, 3*time.Second, queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if hs.ctx.Err() != nil {
					return
				}
				log.Printf("[ERROR] BLPop: %v", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			var rec room.AuditRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("invalid audit record: %v", err)
				continue
			}
			hs.appendToBatch(rec)
		}
	}
}

func (hs *HistorianService) appendToBatch(rec room.AuditRecord) {
	hs.batchMu.Lock()
	hs.batch = append(hs.batch, rec)
	full := len(hs.batch) >= hs.batchSize
	hs.batchMu.Unlock()
	if full {
		hs.flushBatchToDB()
	}
}

// flushBatchToDB writes the current batch in one transaction.
func (hs *HistorianService) flushBatchToDB() {
	hs.batchMu.Lock()
	if len(hs.batch) == 0 {
		hs.batchMu.Unlock()
		return
	}
	batchCopy := make([]room.AuditRecord, len(hs.batch))
	copy(batchCopy, hs.batch)
	hs.batch = hs.batch[:0]
	hs.batchMu.Unlock()

	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, hs.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
		INSERT INTO game_events (game_id, game_code, event_type, player_id, word, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, rec := range batchCopy {
			ts := time.UnixMilli(rec.Timestamp).UTC()
			if _, e := tx.Exec(ctx, q,
				rec.GameID, rec.GameCode, rec.EventType, rec.PlayerID, rec.Word, ts,
			); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] flushBatchToDB: %v", err)
	} else {
		log.Printf("Flushed %d events to DB.", len(batchCopy))
	}
}

func main() {
	pool, err := database.Connect(context.Background())
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer pool.Close()

	hs := NewHistorianService(pool)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		hs.Stop()
	}()

	hs.Run()
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
