// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/openbingo/wordbingo/internal/bingo"
	"github.com/openbingo/wordbingo/internal/models"
	"github.com/openbingo/wordbingo/internal/room"
)

const (
	defaultMaxPlayers = 4
	minPlayers        = 2
	codeAttempts      = 10
)

// CreateGameRequest is the POST /game/create payload. Words is an
// optional newline-separated custom pool; it is only honored when it
// yields at least 24 non-empty entries.
type CreateGameRequest struct {
	Name       string `json:"name"`
	HostName   string `json:"hostName"`
	MaxPlayers int    `json:"maxPlayers"`
	Words      string `json:"words,omitempty"`
}

// CreateGameResponse returns the created game and the host's player id.
type CreateGameResponse struct {
	Game     *models.Game `json:"game"`
	PlayerID string       `json:"playerId"`
}

// CreateGameHandler creates a game with a unique shareable code plus its
// host player, and reports both back. The host then opens the WebSocket
// and attaches with the returned player id.
func CreateGameHandler(s *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CreateGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}
		if req.Name == "" || req.HostName == "" {
			http.Error(w, "game name and host name are required", http.StatusBadRequest)
			return
		}
		if req.MaxPlayers == 0 {
			req.MaxPlayers = defaultMaxPlayers
		}
		if req.MaxPlayers < minPlayers {
			http.Error(w, "maxPlayers must be at least 2", http.StatusBadRequest)
			return
		}

		words := parseCustomWords(req.Words)

		ctx := r.Context()

		// Codes collide rarely; retry a handful of times before giving up.
		var code string
		for attempt := 0; ; attempt++ {
			if attempt >= codeAttempts {
				http.Error(w, "failed to generate unique game code", http.StatusInternalServerError)
				return
			}
			code = bingo.GenerateCode()
			_, err := s.Store.FindGameByCode(ctx, code)
			if errors.Is(err, room.ErrGameNotFound) {
				break
			}
			if err != nil {
				s.Logger.WithError(err).Error("game code lookup failed")
				http.Error(w, "failed to create game", http.StatusInternalServerError)
				return
			}
		}

		game := &models.Game{
			ID:         uuid.New(),
			Code:       code,
			Name:       req.Name,
			MaxPlayers: req.MaxPlayers,
			IsActive:   true,
			Words:      words,
		}
		if err := s.Store.CreateGame(ctx, game); err != nil {
			s.Logger.WithError(err).Error("create game failed")
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}

		board, err := bingo.GenerateBoard(words)
		if err != nil {
			s.Logger.WithError(err).Error("host board generation failed")
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}
		host := &models.Player{
			ID:     uuid.New(),
			GameID: game.ID,
			Name:   req.HostName,
			IsHost: true,
			Board:  board,
			Marked: []bingo.Coord{},
		}
		if err := s.Store.CreatePlayer(ctx, host); err != nil {
			s.Logger.WithError(err).Error("create host player failed")
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}

		if err := s.Store.UpdateGame(ctx, game.ID, true, host.ID); err != nil {
			s.Logger.WithError(err).Error("set game host failed")
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}
		game.HostID = host.ID

		s.Logger.WithField("code", code).Info("game created")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CreateGameResponse{
			Game:     game,
			PlayerID: host.ID.String(),
		})
	}
}

// GameInfoHandler serves a snapshot of the game and its players for the
// join page: GET /game/info/{code}.
func GameInfoHandler(s *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/game/info/")
		if code == "" || strings.Contains(code, "/") {
			http.Error(w, "missing game code (/game/info/{code})", http.StatusBadRequest)
			return
		}

		ctx := r.Context()
		game, err := s.Store.FindGameByCode(ctx, code)
		if errors.Is(err, room.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		if err != nil {
			s.Logger.WithError(err).Error("game lookup failed")
			http.Error(w, "failed to load game", http.StatusInternalServerError)
			return
		}
		players, err := s.Store.FindPlayers(ctx, game.ID)
		if err != nil {
			s.Logger.WithError(err).Error("player lookup failed")
			http.Error(w, "failed to load game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"game":    game,
			"players": players,
		})
	}
}

// parseCustomWords splits a newline-separated custom pool; anything short
// of a full board's worth falls back to the stock list.
func parseCustomWords(raw string) []string {
	if raw == "" {
		return bingo.DefaultWords
	}
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		if w := strings.TrimSpace(line); w != "" {
			words = append(words, w)
		}
	}
	if len(words) < 24 {
		return bingo.DefaultWords
	}
	return words
}
