// internal/database/game.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openbingo/wordbingo/internal/models"
	"github.com/openbingo/wordbingo/internal/room"
)

// FindGameByCode loads a game row by its shareable code. Returns
// room.ErrGameNotFound when no such game exists.
func (s *Store) FindGameByCode(ctx context.Context, code string) (*models.Game, error) {
	var g models.Game
	q := `
	SELECT id, code, name, host_id, max_players, is_active, words
	FROM games
	WHERE code = $1
	`
	err := s.pool.QueryRow(ctx, q, code).Scan(
		&g.ID, &g.Code, &g.Name, &g.HostID, &g.MaxPlayers, &g.IsActive, &g.Words,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, room.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find game %q: %w", code, err)
	}
	return &g, nil
}

// CreateGame inserts a new game row. The unique index on code surfaces
// collisions to the caller, which retries with a fresh code.
func (s *Store) CreateGame(ctx context.Context, g *models.Game) error {
	q := `
	INSERT INTO games (id, code, name, host_id, max_players, is_active, words)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			g.ID, g.Code, g.Name, g.HostID, g.MaxPlayers, g.IsActive, g.Words,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("insert game %q: %w", g.Code, err)
	}
	return nil
}

// UpdateGame persists the active flag and host reference.
func (s *Store) UpdateGame(ctx context.Context, gameID uuid.UUID, active bool, hostID uuid.UUID) error {
	q := `UPDATE games SET is_active = $1, host_id = $2 WHERE id = $3`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, active, hostID, gameID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("update game %s: %w", gameID, err)
	}
	return nil
}
