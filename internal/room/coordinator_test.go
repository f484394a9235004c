// internal/room/coordinator_test.go
package room

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbingo/wordbingo/internal/bingo"
	"github.com/openbingo/wordbingo/internal/models"
)

// memStore is an in-memory Store for exercising the coordinator without a
// database. Records are stored by value, so room mutations never alias
// store state. Individual operations can be forced to fail to simulate
// storage faults.
type memStore struct {
	mu      sync.Mutex
	games   map[uuid.UUID]models.Game
	players map[uuid.UUID]models.Player
	words   []models.CalledWord

	failFindGame     error
	failCreatePlayer error
	failUpdatePlayer error
	failUpdateGame   error
	failAppendWord   error
}

func newMemStore() *memStore {
	return &memStore{
		games:   make(map[uuid.UUID]models.Game),
		players: make(map[uuid.UUID]models.Player),
	}
}

func (s *memStore) FindGameByCode(_ context.Context, code string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFindGame != nil {
		return nil, s.failFindGame
	}
	for _, g := range s.games {
		if g.Code == code {
			out := g
			return &out, nil
		}
	}
	return nil, ErrGameNotFound
}

func (s *memStore) CreateGame(_ context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = *g
	return nil
}

func (s *memStore) UpdateGame(_ context.Context, gameID uuid.UUID, active bool, hostID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdateGame != nil {
		return s.failUpdateGame
	}
	g, ok := s.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	g.IsActive = active
	g.HostID = hostID
	s.games[gameID] = g
	return nil
}

func (s *memStore) FindPlayers(_ context.Context, gameID uuid.UUID) ([]*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Player
	for _, p := range s.players {
		if p.GameID == gameID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) CreatePlayer(_ context.Context, p *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreatePlayer != nil {
		return s.failCreatePlayer
	}
	s.players[p.ID] = *p
	return nil
}

func (s *memStore) UpdatePlayer(_ context.Context, playerID uuid.UUID, marked []bingo.Coord, winner bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdatePlayer != nil {
		return s.failUpdatePlayer
	}
	p, ok := s.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	p.Marked = marked
	p.IsWinner = winner
	s.players[playerID] = p
	return nil
}

func (s *memStore) AppendCalledWord(_ context.Context, w *models.CalledWord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppendWord != nil {
		return s.failAppendWord
	}
	s.words = append(s.words, *w)
	return nil
}

func (s *memStore) ListCalledWords(_ context.Context, gameID uuid.UUID) ([]*models.CalledWord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.CalledWord
	for i := len(s.words) - 1; i >= 0; i-- {
		if s.words[i].GameID == gameID {
			cp := s.words[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) playerRecord(t *testing.T, id uuid.UUID) models.Player {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	require.True(t, ok, "player %s not in store", id)
	return p
}

func (s *memStore) gameRecord(t *testing.T, id uuid.UUID) models.Game {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	require.True(t, ok, "game %s not in store", id)
	return g
}

// captureSink records published audit events for assertions.
type captureSink struct {
	recs chan AuditRecord
}

func newCaptureSink() *captureSink {
	return &captureSink{recs: make(chan AuditRecord, 16)}
}

func (s *captureSink) Publish(_ context.Context, rec AuditRecord) error {
	s.recs <- rec
	return nil
}

func (s *captureSink) wait(t *testing.T) AuditRecord {
	t.Helper()
	select {
	case rec := <-s.recs:
		return rec
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit record")
		return AuditRecord{}
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word-%02d", i)
	}
	return words
}

func seedGame(t *testing.T, store *memStore, code string, maxPlayers int, active bool) *models.Game {
	t.Helper()
	g := &models.Game{
		ID:         uuid.New(),
		Code:       code,
		Name:       "Friday Night Bingo",
		MaxPlayers: maxPlayers,
		IsActive:   active,
		Words:      testWords(30),
	}
	require.NoError(t, store.CreateGame(context.Background(), g))
	return g
}

func newTestCoordinator(store Store, audit AuditSink) *Coordinator {
	logger := testLogger()
	return NewCoordinator(NewRegistry(store, logger), store, logger, audit)
}

// drainEvents empties a subscriber's outbound buffer.
func drainEvents(sub *Subscriber) []Event {
	var out []Event
	for {
		select {
		case ev := <-sub.Out:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventsOfType(events []Event, typ EventType) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func winningMarks() []bingo.Coord {
	return []bingo.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}, {Row: 0, Col: 4}}
}

func TestJoinUnknownGame(t *testing.T) {
	c := newTestCoordinator(newMemStore(), nil)
	err := c.Join(context.Background(), "NOSUCH", "alice", NewSubscriber())
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestJoinInactiveGame(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, false)
	c := newTestCoordinator(store, nil)

	err := c.Join(context.Background(), "ABC123", "alice", NewSubscriber())
	require.ErrorIs(t, err, ErrGameInactive)
}

func TestJoinFullGame(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 2, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	require.NoError(t, c.Join(ctx, "ABC123", "alice", NewSubscriber()))
	require.NoError(t, c.Join(ctx, "ABC123", "bob", NewSubscriber()))

	err := c.Join(ctx, "ABC123", "carol", NewSubscriber())
	require.ErrorIs(t, err, ErrGameFull)

	// The rejected join must not leave a player record behind.
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.players, 2)
}

func TestJoinDuplicateName(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	require.NoError(t, c.Join(ctx, "ABC123", "alice", NewSubscriber()))
	err := c.Join(ctx, "ABC123", "alice", NewSubscriber())
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestJoinEmitsSnapshotAndAnnouncement(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice := NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))

	events := drainEvents(alice)
	require.Len(t, events, 1)
	joined := events[0]
	assert.Equal(t, EventJoinedGame, joined.Type)
	assert.Equal(t, alice.PlayerID.String(), joined.PlayerID)
	require.NotNil(t, joined.Game)
	assert.Equal(t, "ABC123", joined.Game.Code)
	assert.Len(t, joined.Game.Players, 1)

	bob := NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))

	// Bob's snapshot includes both players; Alice hears the announcement
	// but not her own joined-game again.
	bobEvents := drainEvents(bob)
	require.Len(t, bobEvents, 1)
	assert.Len(t, bobEvents[0].Game.Players, 2)

	aliceEvents := drainEvents(alice)
	require.Len(t, aliceEvents, 1)
	assert.Equal(t, EventPlayerJoined, aliceEvents[0].Type)
	assert.Equal(t, "bob", aliceEvents[0].PlayerName)
}

func TestJoinStoreFaultLeavesRoomClean(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	store.failCreatePlayer = errors.New("connection reset")
	err := c.Join(ctx, "ABC123", "alice", NewSubscriber())
	var se *StoreError
	require.ErrorAs(t, err, &se)

	// The fault must not leave a phantom member: the same name joins fine
	// once storage recovers.
	store.failCreatePlayer = nil
	require.NoError(t, c.Join(ctx, "ABC123", "alice", NewSubscriber()))
}

func TestJoinHydrationFaultStaysInternal(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	store.failFindGame = errors.New("connection refused")
	c := newTestCoordinator(store, nil)

	err := c.Join(context.Background(), "ABC123", "alice", NewSubscriber())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGameNotFound)

	// A storage fault during hydration is part of the same taxonomy as
	// any other store fault: the client sees the fallback message, never
	// the driver's error text.
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Failed to join game", UserMessage(err, "Failed to join game"))
}

func TestAttachExistingPlayer(t *testing.T) {
	store := newMemStore()
	g := seedGame(t, store, "ABC123", 4, true)
	board, err := bingo.GenerateBoard(g.Words)
	require.NoError(t, err)
	host := &models.Player{
		ID:     uuid.New(),
		GameID: g.ID,
		Name:   "alice",
		IsHost: true,
		Board:  board,
		Marked: []bingo.Coord{},
	}
	require.NoError(t, store.CreatePlayer(context.Background(), host))

	c := newTestCoordinator(store, nil)
	sub := NewSubscriber()
	require.NoError(t, c.Attach(context.Background(), "ABC123", host.ID, sub))

	events := drainEvents(sub)
	require.Len(t, events, 1)
	assert.Equal(t, EventJoinedGame, events[0].Type)
	assert.Equal(t, host.ID.String(), events[0].PlayerID)
	assert.Equal(t, host.ID, sub.PlayerID)
}

func TestAttachUnknownPlayer(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)

	err := c.Attach(context.Background(), "ABC123", uuid.New(), NewSubscriber())
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestCallWordBroadcastsToWholeRoom(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	sink := newCaptureSink()
	c := newTestCoordinator(store, sink)
	ctx := context.Background()

	alice, bob := NewSubscriber(), NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))
	drainEvents(alice)
	drainEvents(bob)

	require.NoError(t, c.CallWord(ctx, "ABC123", "word-03", alice.PlayerID))

	for _, sub := range []*Subscriber{alice, bob} {
		events := drainEvents(sub)
		require.Len(t, events, 1)
		assert.Equal(t, EventWordCalled, events[0].Type)
		assert.Equal(t, "word-03", events[0].Word)
		assert.Equal(t, alice.PlayerID.String(), events[0].CalledBy)
		assert.NotEmpty(t, events[0].Timestamp)
	}

	rec := sink.wait(t)
	assert.Equal(t, AuditWordCalled, rec.EventType)
	assert.Equal(t, "word-03", rec.Word)
}

func TestCallWordDuplicate(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice := NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	require.NoError(t, c.CallWord(ctx, "ABC123", "word-03", alice.PlayerID))

	err := c.CallWord(ctx, "ABC123", "word-03", alice.PlayerID)
	require.ErrorIs(t, err, ErrWordAlreadyCalled)

	// The ledger holds the word exactly once.
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.words, 1)
}

func TestCallWordStoreFaultKeepsLedgerConsistent(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice := NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	drainEvents(alice)

	store.failAppendWord = errors.New("deadlock detected")
	err := c.CallWord(ctx, "ABC123", "word-03", alice.PlayerID)
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, drainEvents(alice), "a failed call must not broadcast")

	// The word was never recorded, so retrying it succeeds.
	store.failAppendWord = nil
	require.NoError(t, c.CallWord(ctx, "ABC123", "word-03", alice.PlayerID))
}

func TestMarkCellUnknownPlayer(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)

	err := c.MarkCell(context.Background(), "ABC123", uuid.New(), 0, 0, winningMarks())
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestMarkCellBroadcastsToOthers(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice, bob := NewSubscriber(), NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))
	drainEvents(alice)
	drainEvents(bob)

	marks := []bingo.Coord{{Row: 1, Col: 1}}
	require.NoError(t, c.MarkCell(ctx, "ABC123", alice.PlayerID, 1, 1, marks))

	assert.Empty(t, drainEvents(alice), "the marking player gets no echo")

	bobEvents := drainEvents(bob)
	require.Len(t, bobEvents, 1)
	ev := bobEvents[0]
	assert.Equal(t, EventCellMarked, ev.Type)
	assert.Equal(t, "alice", ev.PlayerName)
	require.NotNil(t, ev.Row)
	require.NotNil(t, ev.Col)
	assert.Equal(t, 1, *ev.Row)
	assert.Equal(t, 1, *ev.Col)

	assert.Equal(t, marks, store.playerRecord(t, alice.PlayerID).Marked)
}

func TestMarkCellNoEchoOnAnyConnectionOfPlayer(t *testing.T) {
	store := newMemStore()
	g := seedGame(t, store, "ABC123", 4, true)
	board, err := bingo.GenerateBoard(g.Words)
	require.NoError(t, err)
	host := &models.Player{
		ID:     uuid.New(),
		GameID: g.ID,
		Name:   "alice",
		IsHost: true,
		Board:  board,
		Marked: []bingo.Coord{},
	}
	require.NoError(t, store.CreatePlayer(context.Background(), host))

	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	// The same player attached from two connections, e.g. two tabs.
	tab1, tab2 := NewSubscriber(), NewSubscriber()
	require.NoError(t, c.Attach(ctx, "ABC123", host.ID, tab1))
	require.NoError(t, c.Attach(ctx, "ABC123", host.ID, tab2))

	bob := NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))
	drainEvents(tab1)
	drainEvents(tab2)
	drainEvents(bob)

	require.NoError(t, c.MarkCell(ctx, "ABC123", host.ID, 1, 1, []bingo.Coord{{Row: 1, Col: 1}}))

	assert.Empty(t, drainEvents(tab1), "no echo on the marking player's first connection")
	assert.Empty(t, drainEvents(tab2), "no echo on the marking player's second connection")

	bobEvents := drainEvents(bob)
	require.Len(t, bobEvents, 1)
	assert.Equal(t, EventCellMarked, bobEvents[0].Type)
}

func TestMarkCellWin(t *testing.T) {
	store := newMemStore()
	g := seedGame(t, store, "ABC123", 4, true)
	sink := newCaptureSink()
	c := newTestCoordinator(store, sink)
	ctx := context.Background()

	alice, bob := NewSubscriber(), NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))
	drainEvents(alice)
	drainEvents(bob)

	require.NoError(t, c.MarkCell(ctx, "ABC123", bob.PlayerID, 0, 4, winningMarks()))

	for _, sub := range []*Subscriber{alice, bob} {
		events := drainEvents(sub)
		won := eventsOfType(events, EventGameWon)
		require.Len(t, won, 1)
		assert.Equal(t, "bob", won[0].Winner)
		assert.Equal(t, bob.PlayerID.String(), won[0].PlayerID)
	}

	assert.True(t, store.playerRecord(t, bob.PlayerID).IsWinner)
	assert.False(t, store.playerRecord(t, alice.PlayerID).IsWinner)
	assert.False(t, store.gameRecord(t, g.ID).IsActive)

	rec := sink.wait(t)
	assert.Equal(t, AuditGameWon, rec.EventType)
	assert.Equal(t, bob.PlayerID, rec.PlayerID)
}

func TestMarkCellWinOnFinishedGame(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice, bob := NewSubscriber(), NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))

	require.NoError(t, c.MarkCell(ctx, "ABC123", bob.PlayerID, 0, 4, winningMarks()))
	drainEvents(alice)
	drainEvents(bob)

	// Alice completes her board after the game is over: marks persist but
	// no second winner, no second game-won.
	require.NoError(t, c.MarkCell(ctx, "ABC123", alice.PlayerID, 0, 4, winningMarks()))

	assert.Empty(t, eventsOfType(drainEvents(alice), EventGameWon))
	assert.Empty(t, eventsOfType(drainEvents(bob), EventGameWon))
	assert.False(t, store.playerRecord(t, alice.PlayerID).IsWinner)
	assert.Equal(t, winningMarks(), store.playerRecord(t, alice.PlayerID).Marked)
}

func TestMarkCellWinGameUpdateFaultReverts(t *testing.T) {
	store := newMemStore()
	g := seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice := NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	drainEvents(alice)

	store.failUpdateGame = errors.New("connection reset")
	err := c.MarkCell(ctx, "ABC123", alice.PlayerID, 0, 4, winningMarks())
	var se *StoreError
	require.ErrorAs(t, err, &se)

	// The store never shows a winner on an active game, and the win can be
	// claimed again once storage recovers.
	assert.False(t, store.playerRecord(t, alice.PlayerID).IsWinner)
	assert.True(t, store.gameRecord(t, g.ID).IsActive)
	assert.Empty(t, eventsOfType(drainEvents(alice), EventGameWon))

	store.failUpdateGame = nil
	require.NoError(t, c.MarkCell(ctx, "ABC123", alice.PlayerID, 0, 4, winningMarks()))
	assert.True(t, store.playerRecord(t, alice.PlayerID).IsWinner)
	assert.False(t, store.gameRecord(t, g.ID).IsActive)
}

// TestConcurrentWinnersExactlyOne races winning marks from every player
// and verifies single-winner arbitration: one winner flag, one finished
// game, one game-won broadcast.
func TestConcurrentWinnersExactlyOne(t *testing.T) {
	store := newMemStore()
	g := seedGame(t, store, "ABC123", 8, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	const n = 8
	subs := make([]*Subscriber, n)
	for i := range subs {
		subs[i] = NewSubscriber()
		require.NoError(t, c.Join(ctx, "ABC123", fmt.Sprintf("player-%d", i), subs[i]))
	}
	for _, sub := range subs {
		drainEvents(sub)
	}

	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *Subscriber) {
			defer wg.Done()
			<-start
			err := c.MarkCell(ctx, "ABC123", sub.PlayerID, 0, 4, winningMarks())
			assert.NoError(t, err)
		}(sub)
	}
	close(start)
	wg.Wait()

	winners := 0
	store.mu.Lock()
	for _, p := range store.players {
		if p.IsWinner {
			winners++
		}
	}
	store.mu.Unlock()
	assert.Equal(t, 1, winners, "exactly one winner flag in the store")
	assert.False(t, store.gameRecord(t, g.ID).IsActive)

	for i, sub := range subs {
		won := eventsOfType(drainEvents(sub), EventGameWon)
		assert.Len(t, won, 1, "subscriber %d must see exactly one game-won", i)
	}
}

// TestFullSession walks a complete game: host attach, a second join, a run
// of calls, a win, and post-win traffic.
func TestFullSession(t *testing.T) {
	store := newMemStore()
	g := seedGame(t, store, "ABC123", 4, true)
	board, err := bingo.GenerateBoard(g.Words)
	require.NoError(t, err)
	host := &models.Player{
		ID:     uuid.New(),
		GameID: g.ID,
		Name:   "alice",
		IsHost: true,
		Board:  board,
		Marked: []bingo.Coord{},
	}
	require.NoError(t, store.CreatePlayer(context.Background(), host))
	require.NoError(t, store.UpdateGame(context.Background(), g.ID, true, host.ID))

	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice := NewSubscriber()
	require.NoError(t, c.Attach(ctx, "ABC123", host.ID, alice))

	bob := NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))
	drainEvents(alice)
	drainEvents(bob)

	for i := 0; i < 24; i++ {
		require.NoError(t, c.CallWord(ctx, "ABC123", fmt.Sprintf("word-%02d", i), alice.PlayerID))
	}
	assert.Len(t, eventsOfType(drainEvents(bob), EventWordCalled), 24)

	require.NoError(t, c.MarkCell(ctx, "ABC123", bob.PlayerID, 0, 4, winningMarks()))
	won := eventsOfType(drainEvents(alice), EventGameWon)
	require.Len(t, won, 1)
	assert.Equal(t, "bob", won[0].Winner)

	// The room still accepts ledger traffic after the win.
	require.NoError(t, c.CallWord(ctx, "ABC123", "word-25", alice.PlayerID))

	// A late joiner is refused because the game finished.
	err = c.Join(ctx, "ABC123", "carol", NewSubscriber())
	require.ErrorIs(t, err, ErrGameInactive)

	// Fresh hydration after eviction sees the finished state and the full
	// ledger, oldest first.
	c.Disconnect(ctx, alice)
	c.Disconnect(ctx, bob)
	assert.Equal(t, 0, c.registry.Len())

	r, err := c.registry.Acquire(ctx, "ABC123")
	require.NoError(t, err)
	assert.False(t, r.Game.IsActive)
	require.Len(t, r.CalledWords, 25)
	assert.Equal(t, "word-00", r.CalledWords[0].Word)
	assert.Equal(t, "word-25", r.CalledWords[24].Word)
	c.registry.Release(r)
}

func TestDisconnectEvictsEmptyRoom(t *testing.T) {
	store := newMemStore()
	seedGame(t, store, "ABC123", 4, true)
	c := newTestCoordinator(store, nil)
	ctx := context.Background()

	alice, bob := NewSubscriber(), NewSubscriber()
	require.NoError(t, c.Join(ctx, "ABC123", "alice", alice))
	require.NoError(t, c.Join(ctx, "ABC123", "bob", bob))
	require.Equal(t, 1, c.registry.Len())

	c.Disconnect(ctx, alice)
	assert.Equal(t, 1, c.registry.Len(), "room stays while bob is connected")

	c.Disconnect(ctx, bob)
	assert.Equal(t, 0, c.registry.Len())
}
