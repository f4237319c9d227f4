package millionaire

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// QuestionPool supplies catalog questions by difficulty level. The catalog
// is opaque to the engine; a database-backed pool and a fixed in-memory
// stub are both valid implementations.
type QuestionPool interface {
	QuestionsAtLevel(ctx context.Context, level int) ([]Question, error)
}

// ActiveGameSource looks up a user's unfinished game, returning nil when
// there is none. Persistence enforces the at-most-one invariant; the
// factory consults it so creation can refuse and redirect instead of
// racing.
type ActiveGameSource interface {
	ActiveGameForUser(ctx context.Context, userID string) (*Game, error)
}

// ErrInsufficientQuestionPool means at least one level had no available
// question. Creation is all-or-nothing: nothing may be persisted when the
// factory fails.
var ErrInsufficientQuestionPool = errors.New("insufficient question pool")

// ActiveGameError reports that the user already has an unfinished game.
// Not fatal; callers redirect to Existing.
type ActiveGameError struct {
	Existing *Game
}

func (e *ActiveGameError) Error() string {
	return fmt.Sprintf("user %s already has a game in progress", e.Existing.UserID)
}

// Factory assembles new games: one question per level drawn from the pool
// without repetition, answer variants shuffled onto keys. The random
// source, clock and ID generator are injected so tests can run
// deterministically.
type Factory struct {
	pool   QuestionPool
	active ActiveGameSource
	rules  Rules
	now    func() time.Time
	newID  func() string

	mu  sync.Mutex // guards rng; *rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewFactory builds a factory. A nil now or newID falls back to time.Now
// and uuid.NewString.
func NewFactory(pool QuestionPool, active ActiveGameSource, rules Rules, rng *rand.Rand, now func() time.Time, newID func() string) *Factory {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Factory{pool: pool, active: active, rules: rules, rng: rng, now: now, newID: newID}
}

var variantKeys = []string{"a", "b", "c", "d"}

// CreateGameForUser returns a fresh in-memory game for userID: level 0, no
// prize, one question per level. It refuses with *ActiveGameError while an
// unfinished game exists and with ErrInsufficientQuestionPool when any
// level cannot be filled. The caller owns persisting the result
// atomically.
func (f *Factory) CreateGameForUser(ctx context.Context, userID string) (*Game, error) {
	existing, err := f.active.ActiveGameForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("looking up active game: %w", err)
	}
	if existing != nil {
		return nil, &ActiveGameError{Existing: existing}
	}

	levels := f.rules.Prizes.Levels()
	used := make(map[string]bool, levels)
	questions := make([]GameQuestion, 0, levels)

	for level := 0; level < levels; level++ {
		candidates, err := f.pool.QuestionsAtLevel(ctx, level)
		if err != nil {
			return nil, fmt.Errorf("fetching questions at level %d: %w", level, err)
		}

		available := make([]Question, 0, len(candidates))
		for _, q := range candidates {
			if !used[q.ID] {
				available = append(available, q)
			}
		}
		if len(available) == 0 {
			return nil, fmt.Errorf("level %d: %w", level, ErrInsufficientQuestionPool)
		}

		picked := available[f.intn(len(available))]
		used[picked.ID] = true
		questions = append(questions, f.bindQuestion(picked, level))
	}

	return &Game{
		ID:        f.newID(),
		UserID:    userID,
		CreatedAt: f.now().UTC(),
		Questions: questions,
		Rules:     f.rules,
	}, nil
}

// bindQuestion shuffles the correct answer and the distractors onto the
// variant keys and records which key received the correct text.
func (f *Factory) bindQuestion(q Question, level int) GameQuestion {
	answers := append([]string{q.Correct}, q.Distractors...)
	order := f.perm(len(answers))

	variants := make(map[string]string, len(answers))
	correctKey := ""
	for pos, src := range order {
		key := variantKeys[pos%len(variantKeys)]
		variants[key] = answers[src]
		if src == 0 {
			correctKey = key
		}
	}

	return GameQuestion{
		Level:      level,
		Text:       q.Text,
		CorrectKey: correctKey,
		Variants:   variants,
	}
}

func (f *Factory) intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Intn(n)
}

func (f *Factory) perm(n int) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Perm(n)
}
