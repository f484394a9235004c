// internal/room/coordinator.go
package room

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openbingo/wordbingo/internal/bingo"
	"github.com/openbingo/wordbingo/internal/models"
)

// Coordinator validates and applies join, call-word, and mark-cell
// operations. Every operation runs inside one exclusive room section, so
// concurrent submissions against the same game apply in some serial order
// and each sees the effects of the previous one. Store writes land before
// the in-memory copy changes, so a storage fault leaves the room
// consistent with the store.
type Coordinator struct {
	registry *Registry
	store    Store
	logger   *logrus.Logger
	audit    AuditSink // optional
}

// NewCoordinator wires the coordinator. audit may be nil to run without
// the event feed.
func NewCoordinator(registry *Registry, store Store, logger *logrus.Logger, audit AuditSink) *Coordinator {
	return &Coordinator{
		registry: registry,
		store:    store,
		logger:   logger,
		audit:    audit,
	}
}

// Join admits a new player into the game: capacity and name checks, board
// generation, player creation, and subscription of the connection to the
// room's broadcast group. The joining connection receives joined-game
// before the player-joined broadcast goes out to the others.
func (c *Coordinator) Join(ctx context.Context, code, playerName string, sub *Subscriber) error {
	r, err := c.registry.Acquire(ctx, code)
	if err != nil {
		return err
	}
	defer c.registry.Release(r)

	if !r.Game.IsActive {
		return ErrGameInactive
	}
	if len(r.Players) >= r.Game.MaxPlayers {
		return ErrGameFull
	}
	if r.hasPlayerName(playerName) {
		return ErrNameTaken
	}

	board, err := bingo.GenerateBoard(r.Game.Words)
	if err != nil {
		return err
	}

	player := &models.Player{
		ID:     uuid.New(),
		GameID: r.Game.ID,
		Name:   playerName,
		Board:  board,
		Marked: []bingo.Coord{},
	}
	if err := c.store.CreatePlayer(ctx, player); err != nil {
		return &StoreError{Op: "create player", Err: err}
	}
	r.Players = append(r.Players, player)

	sub.PlayerID = player.ID
	sub.GameCode = code
	r.subscribe(sub)

	sub.Send(Event{
		Type:     EventJoinedGame,
		Game:     r.snapshot(),
		PlayerID: player.ID.String(),
	})
	r.broadcastExcept(Event{
		Type:       EventPlayerJoined,
		PlayerName: playerName,
	}, sub.ID)

	c.logger.WithFields(logrus.Fields{
		"code":   code,
		"player": playerName,
	}).Info("player joined")
	return nil
}

// Attach subscribes a connection for a player that already exists, such
// as the host created alongside the game over HTTP. No record is created
// and capacity is not consulted; the connection gets the same joined-game
// snapshot a fresh join would.
func (c *Coordinator) Attach(ctx context.Context, code string, playerID uuid.UUID, sub *Subscriber) error {
	r, err := c.registry.Acquire(ctx, code)
	if err != nil {
		return err
	}
	defer c.registry.Release(r)

	player := r.playerByID(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}

	sub.PlayerID = player.ID
	sub.GameCode = code
	r.subscribe(sub)

	sub.Send(Event{
		Type:     EventJoinedGame,
		Game:     r.snapshot(),
		PlayerID: player.ID.String(),
	})
	r.broadcastExcept(Event{
		Type:       EventPlayerJoined,
		PlayerName: player.Name,
	}, sub.ID)
	return nil
}

// CallWord appends a word to the game's ledger and announces it to the
// whole room. Each word value can be called at most once per game; the
// coordinator does not enforce who may call, that policy belongs to the
// boundary accepting the message.
func (c *Coordinator) CallWord(ctx context.Context, code, word string, callerID uuid.UUID) error {
	r, err := c.registry.Acquire(ctx, code)
	if err != nil {
		return err
	}
	defer c.registry.Release(r)

	if r.wordCalled(word) {
		return ErrWordAlreadyCalled
	}

	entry := &models.CalledWord{
		ID:       uuid.New(),
		GameID:   r.Game.ID,
		Word:     word,
		CalledBy: callerID,
		CalledAt: time.Now().UTC(),
	}
	if err := c.store.AppendCalledWord(ctx, entry); err != nil {
		return &StoreError{Op: "append called word", Err: err}
	}
	r.CalledWords = append(r.CalledWords, entry)

	r.broadcast(Event{
		Type:      EventWordCalled,
		Word:      word,
		CalledBy:  callerID.String(),
		Timestamp: entry.CalledAt.Format(time.RFC3339),
	})

	c.publishAudit(AuditRecord{
		GameID:    r.Game.ID,
		GameCode:  code,
		EventType: AuditWordCalled,
		PlayerID:  callerID,
		Word:      word,
		Timestamp: entry.CalledAt.UnixMilli(),
	})
	return nil
}

// MarkCell replaces the player's marked-cell set and arbitrates the win.
// The bingo check and the active-to-finished transition happen inside the
// same exclusive section, so at most one mark per game can observe the
// game active and end it: two boards completing on concurrent requests
// yield exactly one winner and one game-won broadcast. A completing board
// on an already-finished game is a silent no-op beyond persisting marks.
func (c *Coordinator) MarkCell(ctx context.Context, code string, playerID uuid.UUID, row, col int, marked []bingo.Coord) error {
	r, err := c.registry.Acquire(ctx, code)
	if err != nil {
		return err
	}
	defer c.registry.Release(r)

	player := r.playerByID(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}

	if err := c.store.UpdatePlayer(ctx, playerID, marked, player.IsWinner); err != nil {
		return &StoreError{Op: "update player", Err: err}
	}
	player.Marked = marked

	if !player.Board.HasBingo(marked) {
		r.broadcastExceptPlayer(Event{
			Type:       EventCellMarked,
			PlayerID:   playerID.String(),
			PlayerName: player.Name,
			Row:        &row,
			Col:        &col,
		}, playerID)
		return nil
	}

	if !r.Game.IsActive {
		// A winner was already confirmed by an earlier serialized mark.
		return nil
	}

	if err := c.store.UpdatePlayer(ctx, playerID, marked, true); err != nil {
		return &StoreError{Op: "update winner", Err: err}
	}
	if err := c.store.UpdateGame(ctx, r.Game.ID, false, r.Game.HostID); err != nil {
		// Revert the winner flag so the store never shows a winner on an
		// active game. Best effort; the retryable fault is surfaced.
		if revertErr := c.store.UpdatePlayer(ctx, playerID, marked, false); revertErr != nil {
			c.logger.WithError(revertErr).WithField("player", playerID).
				Error("failed to revert winner flag after game update fault")
		}
		return &StoreError{Op: "update game", Err: err}
	}

	player.IsWinner = true
	r.Game.IsActive = false

	r.broadcast(Event{
		Type:     EventGameWon,
		Winner:   player.Name,
		PlayerID: playerID.String(),
	})

	c.publishAudit(AuditRecord{
		GameID:    r.Game.ID,
		GameCode:  code,
		EventType: AuditGameWon,
		PlayerID:  playerID,
		Timestamp: time.Now().UnixMilli(),
	})

	c.logger.WithFields(logrus.Fields{
		"code":   code,
		"winner": player.Name,
	}).Info("game won")
	return nil
}

// Disconnect removes a connection from its room's broadcast group and
// evicts the room once nobody references it. No game state changes:
// players have no leave semantics during a live session.
func (c *Coordinator) Disconnect(ctx context.Context, sub *Subscriber) {
	if sub.GameCode == "" {
		return
	}
	r, err := c.registry.Acquire(ctx, sub.GameCode)
	if err != nil {
		return
	}
	empty := r.unsubscribe(sub.ID)
	c.registry.Release(r)

	if empty {
		c.registry.Evict(sub.GameCode)
	}
}

// publishAudit hands the record to the sink off the calling goroutine so
// the exclusive section never waits on the feed.
func (c *Coordinator) publishAudit(rec AuditRecord) {
	if c.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.audit.Publish(ctx, rec); err != nil {
			c.logger.WithError(err).Warn("audit publish failed")
		}
	}()
}
