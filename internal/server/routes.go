package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, factory *millionaire.Factory, spaDir string) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Millionaire API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Post("/api/signup", handleSignup(store))
	r.Post("/api/login", handleLogin(store))
	r.Get("/api/games/events", handleEvents(store, broker))

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(store))
		r.Get("/api/me", handleMe(store))
		r.Post("/api/games", handleCreateGame(store, factory))
		r.Get("/api/games/current", handleCurrentGame(store))
		r.Get("/api/games/{gameID}", handleGetGame(store))
		r.Post("/api/games/{gameID}/answer", handleAnswer(store, broker))
		r.Post("/api/games/{gameID}/take-money", handleTakeMoney(store, broker))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
