// internal/room/errors.go
package room

import (
	"errors"
	"fmt"
)

// Validation failures for the three coordinator operations. Each maps to
// an error event on the originating connection and never affects the rest
// of the room.
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameInactive      = errors.New("game is not active")
	ErrGameFull          = errors.New("game is full")
	ErrNameTaken         = errors.New("player name already taken")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrWordAlreadyCalled = errors.New("word already called")
)

// StoreError wraps any fault from the persistence layer. In-memory room
// state is only mutated after the corresponding store write succeeds, so a
// StoreError never leaves the room inconsistent with the store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UserMessage translates an operation error into the message sent back to
// the triggering connection. Validation errors carry their own text;
// storage faults are reported with the per-operation fallback so internals
// never leak to clients.
func UserMessage(err error, storeFallback string) string {
	var se *StoreError
	if errors.As(err, &se) {
		return storeFallback
	}
	return err.Error()
}
