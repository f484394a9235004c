// internal/models/game.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/openbingo/wordbingo/internal/bingo"
)

// Game is a row in the games table. The code is the short shareable
// identifier players type in; it stays unique across active and finished
// games. IsActive flips to false exactly once, when a winner is confirmed.
type Game struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	HostID     uuid.UUID `json:"hostId"`
	MaxPlayers int       `json:"maxPlayers"`
	IsActive   bool      `json:"isActive"`

	// Words is the pool boards are generated from, in creation order.
	Words []string `json:"words"`
}

// Player belongs to exactly one game for its lifetime. Name is unique
// within the game; exactly one player per game carries IsHost.
type Player struct {
	ID       uuid.UUID     `json:"id"`
	GameID   uuid.UUID     `json:"gameId"`
	Name     string        `json:"name"`
	IsHost   bool          `json:"isHost"`
	Board    bingo.Board   `json:"board"`
	Marked   []bingo.Coord `json:"markedCells"`
	IsWinner bool          `json:"isWinner"`
}

// CalledWord is one entry of a game's append-only called-word ledger.
// A word value appears at most once per game.
type CalledWord struct {
	ID       uuid.UUID `json:"id"`
	GameID   uuid.UUID `json:"gameId"`
	Word     string    `json:"word"`
	CalledBy uuid.UUID `json:"calledBy"`
	CalledAt time.Time `json:"calledAt"`
}
