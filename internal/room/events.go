// internal/room/events.go
package room

import (
	"github.com/openbingo/wordbingo/internal/models"
)

// EventType names an outbound event. The values are the wire-level type
// strings the web client listens for.
type EventType string

const (
	EventJoinedGame   EventType = "joined-game"  // unicast to the joining connection
	EventPlayerJoined EventType = "player-joined" // to everyone else in the room
	EventWordCalled   EventType = "word-called"   // to the whole room, caller included
	EventCellMarked   EventType = "cell-marked"   // to everyone but the marking player
	EventGameWon      EventType = "game-won"      // to the whole room, exactly once per game
	EventError        EventType = "error"         // unicast to the triggering connection
)

// GameSnapshot is the full game view sent with joined-game: the game row
// plus all players and the ledger as hydrated at join time.
type GameSnapshot struct {
	models.Game
	Players     []*models.Player     `json:"players"`
	CalledWords []*models.CalledWord `json:"calledWords"`
}

// Event is the single outbound message shape. Fields are populated per
// type and omitted otherwise; the whole struct marshals to the flat JSON
// objects the client expects.
type Event struct {
	Type EventType `json:"type"`

	// joined-game
	Game     *GameSnapshot `json:"game,omitempty"`
	PlayerID string        `json:"playerId,omitempty"`

	// player-joined, cell-marked
	PlayerName string `json:"playerName,omitempty"`

	// word-called
	Word      string `json:"word,omitempty"`
	CalledBy  string `json:"calledBy,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`

	// cell-marked
	Row *int `json:"row,omitempty"`
	Col *int `json:"col,omitempty"`

	// game-won
	Winner string `json:"winner,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}
