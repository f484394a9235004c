// internal/room/store.go
package room

import (
	"context"

	"github.com/google/uuid"

	"github.com/openbingo/wordbingo/internal/bingo"
	"github.com/openbingo/wordbingo/internal/models"
)

// Store is the durable source of truth for games, players, and the
// called-word ledger. The room layer treats each call as linearizable per
// record; cross-record consistency comes from the per-room exclusive
// section, not from the store.
//
// Implementations return ErrGameNotFound / ErrPlayerNotFound for missing
// lookups and wrap everything else in their own error chains.
type Store interface {
	FindGameByCode(ctx context.Context, code string) (*models.Game, error)
	CreateGame(ctx context.Context, g *models.Game) error

	// UpdateGame persists the active flag and host reference. These are
	// the only game fields that change after creation.
	UpdateGame(ctx context.Context, gameID uuid.UUID, active bool, hostID uuid.UUID) error

	FindPlayers(ctx context.Context, gameID uuid.UUID) ([]*models.Player, error)
	CreatePlayer(ctx context.Context, p *models.Player) error

	// UpdatePlayer replaces the marked-cell set wholesale and sets the
	// winner flag.
	UpdatePlayer(ctx context.Context, playerID uuid.UUID, marked []bingo.Coord, winner bool) error

	AppendCalledWord(ctx context.Context, w *models.CalledWord) error

	// ListCalledWords returns the ledger ordered newest-first.
	ListCalledWords(ctx context.Context, gameID uuid.UUID) ([]*models.CalledWord, error)
}
