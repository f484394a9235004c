// internal/database/player.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openbingo/wordbingo/internal/bingo"
	"github.com/openbingo/wordbingo/internal/models"
)

// FindPlayers returns all players of a game in join order.
func (s *Store) FindPlayers(ctx context.Context, gameID uuid.UUID) ([]*models.Player, error) {
	q := `
	SELECT id, game_id, name, is_host, board, marked_cells, is_winner
	FROM players
	WHERE game_id = $1
	ORDER BY joined_at
	`
	rows, err := s.pool.Query(ctx, q, gameID)
	if err != nil {
		return nil, fmt.Errorf("query players for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(
			&p.ID, &p.GameID, &p.Name, &p.IsHost, &p.Board, &p.Marked, &p.IsWinner,
		); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

// CreatePlayer inserts a new player row with its freshly generated board.
func (s *Store) CreatePlayer(ctx context.Context, p *models.Player) error {
	q := `
	INSERT INTO players (id, game_id, name, is_host, board, marked_cells, is_winner)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			p.ID, p.GameID, p.Name, p.IsHost, p.Board, p.Marked, p.IsWinner,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("insert player %q: %w", p.Name, err)
	}
	return nil
}

// UpdatePlayer replaces the marked-cell set and sets the winner flag.
func (s *Store) UpdatePlayer(ctx context.Context, playerID uuid.UUID, marked []bingo.Coord, winner bool) error {
	if marked == nil {
		marked = []bingo.Coord{}
	}
	q := `UPDATE players SET marked_cells = $1, is_winner = $2 WHERE id = $3`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, marked, winner, playerID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("update player %s: %w", playerID, err)
	}
	return nil
}
