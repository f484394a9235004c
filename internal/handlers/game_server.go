// internal/handlers/game_server.go
package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/openbingo/wordbingo/internal/room"
)

// GameServer bundles the room layer dependencies the HTTP and WebSocket
// handlers share. Constructed once in main and passed down; nothing here
// is global.
type GameServer struct {
	Logger      *logrus.Logger
	Store       room.Store
	Registry    *room.Registry
	Coordinator *room.Coordinator
}

// NewGameServer wires registry and coordinator over the given store.
// audit may be nil to run without the event feed.
func NewGameServer(logger *logrus.Logger, store room.Store, audit room.AuditSink) *GameServer {
	registry := room.NewRegistry(store, logger)
	return &GameServer{
		Logger:      logger,
		Store:       store,
		Registry:    registry,
		Coordinator: room.NewCoordinator(registry, store, logger, audit),
	}
}
