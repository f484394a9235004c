// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/openbingo/wordbingo/internal/cache"
	"github.com/openbingo/wordbingo/internal/database"
	"github.com/openbingo/wordbingo/internal/handlers"
	"github.com/openbingo/wordbingo/internal/middleware"
	"github.com/openbingo/wordbingo/internal/room"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	ctx := context.Background()

	pool, err := database.Connect(ctx)
	if err != nil {
		logger.Fatalf("database connect: %v", err)
	}
	defer pool.Close()
	store := database.NewStore(pool)

	// The event feed is best-effort; the game runs fine without it.
	var audit room.AuditSink
	if publisher, err := cache.Connect(ctx); err != nil {
		logger.Warnf("redis unavailable, event feed disabled: %v", err)
	} else {
		audit = publisher
		defer publisher.Close()
	}

	srv := handlers.NewGameServer(logger, store, audit)

	mux := http.NewServeMux()
	mux.Handle("/game/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateGameHandler(srv),
	)))
	mux.Handle("/game/info/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameInfoHandler(srv),
	)))
	mux.Handle("/game/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
