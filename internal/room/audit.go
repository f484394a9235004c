// internal/room/audit.go
package room

import (
	"context"

	"github.com/google/uuid"
)

// Audit event kinds pushed to the feed.
const (
	AuditWordCalled = "word-called"
	AuditGameWon    = "game-won"
)

// AuditRecord is the minimal description of a committed room event,
// published for the historian to persist out of band.
type AuditRecord struct {
	GameID    uuid.UUID `json:"game_id"`
	GameCode  string    `json:"game_code"`
	EventType string    `json:"event_type"`
	PlayerID  uuid.UUID `json:"player_id"`
	Word      string    `json:"word,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// AuditSink receives committed event records. Publishing happens off the
// room's exclusive section and failures are logged, never surfaced to
// players.
type AuditSink interface {
	Publish(ctx context.Context, rec AuditRecord) error
}
