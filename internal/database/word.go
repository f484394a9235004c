// internal/database/word.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openbingo/wordbingo/internal/models"
)

// AppendCalledWord adds one ledger entry. The unique index on
// (game_id, word) backs up the in-memory duplicate check.
func (s *Store) AppendCalledWord(ctx context.Context, w *models.CalledWord) error {
	q := `
	INSERT INTO called_words (id, game_id, word, called_by, called_at)
	VALUES ($1, $2, $3, $4, $5)
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q, w.ID, w.GameID, w.Word, w.CalledBy, w.CalledAt)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("insert called word %q: %w", w.Word, err)
	}
	return nil
}

// ListCalledWords returns a game's ledger ordered newest-first.
func (s *Store) ListCalledWords(ctx context.Context, gameID uuid.UUID) ([]*models.CalledWord, error) {
	q := `
	SELECT id, game_id, word, called_by, called_at
	FROM called_words
	WHERE game_id = $1
	ORDER BY called_at DESC
	`
	rows, err := s.pool.Query(ctx, q, gameID)
	if err != nil {
		return nil, fmt.Errorf("query called words for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var words []*models.CalledWord
	for rows.Next() {
		var w models.CalledWord
		if err := rows.Scan(&w.ID, &w.GameID, &w.Word, &w.CalledBy, &w.CalledAt); err != nil {
			return nil, fmt.Errorf("scan called word: %w", err)
		}
		words = append(words, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate called words: %w", err)
	}
	return words, nil
}
