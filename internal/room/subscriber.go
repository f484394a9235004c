// internal/room/subscriber.go
package room

import (
	log "github.com/sirupsen/logrus"

	"github.com/google/uuid"
)

// Subscriber is one connection's membership in a room's broadcast group.
// Events are handed off through a buffered channel so the room's exclusive
// section never blocks on the network; the transport's write pump drains
// the channel.
type Subscriber struct {
	ID uuid.UUID

	// PlayerID is set once the connection completes a join.
	PlayerID uuid.UUID

	// GameCode is the room this subscriber belongs to, for teardown.
	GameCode string

	Out chan Event
}

// NewSubscriber allocates a subscriber with a buffered outbound channel.
func NewSubscriber() *Subscriber {
	return &Subscriber{
		ID:  uuid.New(),
		Out: make(chan Event, 32),
	}
}

// Send pushes an event onto the outbound channel without blocking. A full
// or abandoned channel drops the event; a subscriber that slow is already
// being torn down by its read loop.
func (s *Subscriber) Send(ev Event) {
	select {
	case s.Out <- ev:
	default:
		log.Warnf("subscriber %s: out channel full, dropped %s event", s.ID, ev.Type)
	}
}

// SendError delivers an error event to this subscriber only.
func (s *Subscriber) SendError(msg string) {
	s.Send(Event{Type: EventError, Message: msg})
}
