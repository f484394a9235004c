// internal/room/room.go
package room

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/openbingo/wordbingo/internal/models"
)

// Room is the live, authoritative working copy of one game while
// connections are active: the game row, its players, and the called-word
// ledger, plus the broadcast group. It is owned by the Registry; all
// reads and mutations happen under Mu for the duration of one operation.
type Room struct {
	Code string

	Mu sync.Mutex

	Game        *models.Game
	Players     []*models.Player
	CalledWords []*models.CalledWord // append order, oldest first

	subs map[uuid.UUID]*Subscriber

	hydrated bool
}

func newRoom(code string) *Room {
	return &Room{
		Code: code,
		subs: make(map[uuid.UUID]*Subscriber),
	}
}

// hydrate loads the room's working copy from the store. Assumes Mu is held.
func (r *Room) hydrate(ctx context.Context, store Store) error {
	g, err := store.FindGameByCode(ctx, r.Code)
	if errors.Is(err, ErrGameNotFound) {
		return err
	}
	if err != nil {
		return &StoreError{Op: "find game", Err: err}
	}

	players, err := store.FindPlayers(ctx, g.ID)
	if err != nil {
		return &StoreError{Op: "find players", Err: err}
	}

	// The store hands the ledger back newest-first; keep it oldest-first
	// in memory so appends stay appends.
	called, err := store.ListCalledWords(ctx, g.ID)
	if err != nil {
		return &StoreError{Op: "list called words", Err: err}
	}
	for i, j := 0, len(called)-1; i < j; i, j = i+1, j-1 {
		called[i], called[j] = called[j], called[i]
	}

	r.Game = g
	r.Players = players
	r.CalledWords = called
	r.hydrated = true
	return nil
}

// playerByID assumes Mu is held.
func (r *Room) playerByID(id uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// hasPlayerName assumes Mu is held. Names compare case-sensitively.
func (r *Room) hasPlayerName(name string) bool {
	for _, p := range r.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// wordCalled assumes Mu is held. Words compare exactly as submitted.
func (r *Room) wordCalled(word string) bool {
	for _, cw := range r.CalledWords {
		if cw.Word == word {
			return true
		}
	}
	return false
}

// subscribe adds a connection to the broadcast group. Assumes Mu is held.
func (r *Room) subscribe(sub *Subscriber) {
	r.subs[sub.ID] = sub
}

// unsubscribe removes a connection and reports whether the room is now
// empty. Assumes Mu is held.
func (r *Room) unsubscribe(subID uuid.UUID) bool {
	delete(r.subs, subID)
	return len(r.subs) == 0
}

// broadcast fans an event to every current subscriber. Assumes Mu is
// held; Send is non-blocking so the exclusive section is never extended
// by a slow connection.
func (r *Room) broadcast(ev Event) {
	for _, sub := range r.subs {
		sub.Send(ev)
	}
}

// broadcastExcept fans an event to everyone but one subscriber. Assumes
// Mu is held.
func (r *Room) broadcastExcept(ev Event, skip uuid.UUID) {
	for id, sub := range r.subs {
		if id == skip {
			continue
		}
		sub.Send(ev)
	}
}

// broadcastExceptPlayer fans an event to every subscriber not bound to
// the given player. A player attached from several connections gets no
// echo on any of them. Assumes Mu is held.
func (r *Room) broadcastExceptPlayer(ev Event, playerID uuid.UUID) {
	for _, sub := range r.subs {
		if sub.PlayerID == playerID {
			continue
		}
		sub.Send(ev)
	}
}

// snapshot builds the full game view for joined-game. Assumes Mu is held.
func (r *Room) snapshot() *GameSnapshot {
	snap := &GameSnapshot{
		Game:        *r.Game,
		Players:     make([]*models.Player, len(r.Players)),
		CalledWords: make([]*models.CalledWord, len(r.CalledWords)),
	}
	copy(snap.Players, r.Players)
	copy(snap.CalledWords, r.CalledWords)
	return snap
}
