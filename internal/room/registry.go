// internal/room/registry.go
package room

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry maps game codes to live rooms. Acquiring a code yields its
// room with the room mutex held, so operations on the same code serialize
// while different codes proceed independently. Rooms are hydrated from
// the store on first acquisition and evicted once their last subscriber
// leaves; the store stays the durable source of truth either way.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	store  Store
	logger *logrus.Logger
}

func NewRegistry(store Store, logger *logrus.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		store:  store,
		logger: logger,
	}
}

// Acquire returns the room for code with its mutex held. The caller must
// Release it on every exit path. Fails with ErrGameNotFound when no
// persisted game exists for the code.
func (reg *Registry) Acquire(ctx context.Context, code string) (*Room, error) {
	for {
		reg.mu.Lock()
		r, ok := reg.rooms[code]
		if !ok {
			r = newRoom(code)
			reg.rooms[code] = r
		}
		reg.mu.Unlock()

		r.Mu.Lock()

		// The room can be evicted (or dropped after a failed hydration)
		// between the map lookup and the lock. Locking an orphan would
		// split the exclusive section across two copies of the game, so
		// re-check residency and start over on loss. Safe to take reg.mu
		// here: nothing holding reg.mu ever blocks on a room mutex.
		reg.mu.Lock()
		resident := reg.rooms[code] == r
		reg.mu.Unlock()
		if !resident {
			r.Mu.Unlock()
			continue
		}

		if !r.hydrated {
			if err := r.hydrate(ctx, reg.store); err != nil {
				r.Mu.Unlock()
				reg.drop(r)
				return nil, err
			}
			reg.logger.WithFields(logrus.Fields{
				"code":    code,
				"players": len(r.Players),
			}).Debug("room hydrated")
		}
		return r, nil
	}
}

// Release ends the exclusive section started by Acquire.
func (reg *Registry) Release(r *Room) {
	r.Mu.Unlock()
}

// Evict removes the room for code if it has no subscribers. TryLock
// keeps the invariant that reg.mu holders never block on a room mutex;
// a contended room is in use and not evictable anyway.
func (reg *Registry) Evict(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[code]
	if !ok {
		return
	}
	if !r.Mu.TryLock() {
		return
	}
	empty := len(r.subs) == 0
	r.Mu.Unlock()
	if empty {
		delete(reg.rooms, code)
		reg.logger.WithField("code", code).Debug("room evicted")
	}
}

// drop removes a room stub that failed hydration, but only if the map
// still holds this exact stub; a concurrent Acquire may have replaced it.
func (reg *Registry) drop(r *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if cur, ok := reg.rooms[r.Code]; ok && cur == r {
		delete(reg.rooms, r.Code)
	}
}

// Len reports the number of resident rooms.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}
