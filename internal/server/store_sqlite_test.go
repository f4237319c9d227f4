package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

func TestSaveProgressStaleWrite(t *testing.T) {
	ts := setupServer(t)
	ctx := context.Background()

	user := ts.signup(t, "stale@example.com")
	created := ts.startGame(t, user.Token)

	game, err := ts.store.GameByID(ctx, created.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}

	game.CurrentLevel = 1
	if err := ts.store.SaveProgress(ctx, game, 0); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	// A second writer holding the old level must not clobber the first.
	game.CurrentLevel = 1
	if err := ts.store.SaveProgress(ctx, game, 0); !errors.Is(err, millionaire.ErrGameFinished) {
		t.Fatalf("stale save: expected ErrGameFinished, got %v", err)
	}

	reloaded, err := ts.store.GameByID(ctx, created.GameID)
	if err != nil {
		t.Fatalf("reload game: %v", err)
	}
	if reloaded.CurrentLevel != 1 {
		t.Fatalf("expected level 1 after stale write, got %d", reloaded.CurrentLevel)
	}
}

func TestFinishGameOnlyOnce(t *testing.T) {
	ts := setupServer(t)
	ctx := context.Background()

	user := ts.signup(t, "double@example.com")
	created := ts.startGame(t, user.Token)

	// Two copies of the same game, as two racing requests would hold.
	first, err := ts.store.GameByID(ctx, created.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	second, err := ts.store.GameByID(ctx, created.GameID)
	if err != nil {
		t.Fatalf("load game: %v", err)
	}

	now := first.CreatedAt.Add(time.Minute)
	first.FinishedAt = &now
	first.Prize = 500
	second.FinishedAt = &now
	second.Prize = 500

	if err := ts.store.FinishGame(ctx, first); err != nil {
		t.Fatalf("first finish: %v", err)
	}
	if err := ts.store.FinishGame(ctx, second); !errors.Is(err, millionaire.ErrGameFinished) {
		t.Fatalf("second finish: expected ErrGameFinished, got %v", err)
	}

	balance, err := ts.store.UserBalance(ctx, user.UserID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 500 {
		t.Fatalf("expected balance credited once (500), got %d", balance)
	}
}

func TestActiveGameForUserNone(t *testing.T) {
	ts := setupServer(t)

	user := ts.signup(t, "idle@example.com")

	game, err := ts.store.ActiveGameForUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("active game: %v", err)
	}
	if game != nil {
		t.Fatalf("expected no active game, got %+v", game)
	}
}
