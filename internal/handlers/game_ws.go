// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openbingo/wordbingo/internal/bingo"
	"github.com/openbingo/wordbingo/internal/room"
)

// ClientMessage is the inbound WebSocket message shape. Type selects the
// operation; the remaining fields are populated per type.
type ClientMessage struct {
	Type string `json:"type"`

	GameCode   string `json:"gameCode,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`

	// call-word
	Word string `json:"word,omitempty"`

	// mark-cell
	Row         int           `json:"row"`
	Col         int           `json:"col"`
	MarkedCells []bingo.Coord `json:"markedCells,omitempty"`
}

// GameWSHandler upgrades the connection, subscribes it to the broadcast
// layer, and runs the read loop until the client goes away. The
// subscriber is always detached from its room on exit, success or not.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"bingo"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "bingo" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the bingo subprotocol")
			return
		}
		logger.Infof("websocket connection established from %s", r.RemoteAddr)

		sub := room.NewSubscriber()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writePump(ctx, c, sub, logger)

		readMessages(ctx, c, gs, sub, logger)

		// Teardown must run on every exit path so the room never holds a
		// dead subscriber.
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		gs.Coordinator.Disconnect(cleanupCtx, sub)
		cleanupCancel()
		logger.Infof("subscriber %s cleaned up", sub.ID)
	}
}

// readMessages reads, validates, and dispatches client messages until the
// connection closes or the context is canceled.
func readMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, sub *room.Subscriber, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for subscriber %s", sub.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("websocket context canceled for subscriber %s", sub.ID)
			} else {
				logger.Warnf("websocket read error for subscriber %s: %v", sub.ID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			logger.Warnf("ignoring non-text message from subscriber %s", sub.ID)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid json from subscriber %s: %v", sub.ID, err)
			sub.SendError("Invalid JSON format")
			continue
		}

		dispatch(ctx, gs, sub, &msg, logger)
	}
}

// dispatch routes one client message to the coordinator and reports any
// failure back to the sender only.
func dispatch(ctx context.Context, gs *GameServer, sub *room.Subscriber, msg *ClientMessage, logger *logrus.Logger) {
	switch msg.Type {
	case "join-game":
		if sub.GameCode != "" {
			sub.SendError("Already joined a game")
			return
		}
		var err error
		if msg.PlayerID != "" {
			// Existing player (e.g. the host created over HTTP)
			// re-attaching to its room.
			playerID, parseErr := uuid.Parse(msg.PlayerID)
			if parseErr != nil {
				sub.SendError("Invalid playerId")
				return
			}
			err = gs.Coordinator.Attach(ctx, msg.GameCode, playerID, sub)
		} else {
			err = gs.Coordinator.Join(ctx, msg.GameCode, msg.PlayerName, sub)
		}
		if err != nil {
			logger.WithError(err).WithField("code", msg.GameCode).Warn("join failed")
			sub.SendError(room.UserMessage(err, "Failed to join game"))
		}

	case "call-word":
		callerID, parseErr := uuid.Parse(msg.PlayerID)
		if parseErr != nil {
			sub.SendError("Invalid playerId")
			return
		}
		if err := gs.Coordinator.CallWord(ctx, msg.GameCode, msg.Word, callerID); err != nil {
			logger.WithError(err).WithField("code", msg.GameCode).Warn("call-word failed")
			sub.SendError(room.UserMessage(err, "Failed to call word"))
		}

	case "mark-cell":
		playerID, parseErr := uuid.Parse(msg.PlayerID)
		if parseErr != nil {
			sub.SendError("Invalid playerId")
			return
		}
		err := gs.Coordinator.MarkCell(ctx, msg.GameCode, playerID, msg.Row, msg.Col, msg.MarkedCells)
		if err != nil {
			logger.WithError(err).WithField("code", msg.GameCode).Warn("mark-cell failed")
			sub.SendError(room.UserMessage(err, "Failed to mark cell"))
		}

	default:
		sub.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// writePump drains the subscriber's outbound channel onto the socket and
// keeps the connection alive with periodic pings. Exits when the context
// ends or a write fails; the read loop then observes the closure.
func writePump(ctx context.Context, c *websocket.Conn, sub *room.Subscriber, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-sub.Out:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("failed to marshal %s event for subscriber %s: %v", ev.Type, sub.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("write failed for subscriber %s: %v", sub.ID, err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping failed for subscriber %s, assuming disconnect: %v", sub.ID, err)
				return
			}
		}
	}
}
