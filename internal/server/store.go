package server

import (
	"context"
	"errors"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

type userSession struct {
	UserID string
	Email  string
}

// Store is the persistence collaborator: users and sessions, the question
// catalog the factory draws from, and game snapshots. Terminal-state
// commits and payout credits are one transaction from the caller's point
// of view.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (userID string, err error)
	UserByEmail(ctx context.Context, email string) (userID, passwordHash string, err error)
	CreateSession(ctx context.Context, userID string) (token string, err error)
	UserFromToken(ctx context.Context, token string) (userSession, error)
	UserBalance(ctx context.Context, userID string) (int64, error)

	// QuestionsAtLevel makes the store a millionaire.QuestionPool.
	QuestionsAtLevel(ctx context.Context, level int) ([]millionaire.Question, error)
	CountQuestions(ctx context.Context) (int, error)
	InsertQuestion(ctx context.Context, q millionaire.Question) error

	// ActiveGameForUser returns (nil, nil) when the user has no
	// unfinished game, making the store a millionaire.ActiveGameSource.
	ActiveGameForUser(ctx context.Context, userID string) (*millionaire.Game, error)
	GameByID(ctx context.Context, id string) (*millionaire.Game, error)

	// CreateGame persists a fresh game and its questions all-or-nothing.
	CreateGame(ctx context.Context, g *millionaire.Game) error
	// SaveProgress commits a non-terminal level advance. fromLevel is the
	// level the caller observed before mutating; a stale write returns
	// millionaire.ErrGameFinished.
	SaveProgress(ctx context.Context, g *millionaire.Game, fromLevel int) error
	// FinishGame commits the terminal fields and credits any prize to the
	// user balance in one transaction. A second finish attempt returns
	// millionaire.ErrGameFinished and changes nothing.
	FinishGame(ctx context.Context, g *millionaire.Game) error
}
