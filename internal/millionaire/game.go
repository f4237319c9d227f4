// Package millionaire implements the game progression and scoring engine
// for a single-player "climb the ladder of 15 questions" quiz: each correct
// answer advances one level toward the top prize; a wrong answer, an
// expired clock or a voluntary cash-out ends the game with a payout
// determined by progress. The package is pure domain logic; persistence,
// routing and rendering are collaborators behind interfaces.
package millionaire

import (
	"errors"
	"fmt"
	"time"
)

// Status is the derived state of a game. InProgress is the only
// non-terminal status; once a terminal status is reached no further
// mutation is permitted.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusFail       Status = "fail"
	StatusMoney      Status = "money"
	StatusTimeout    Status = "timeout"
)

// Terminal reports whether s permits no further mutation.
func (s Status) Terminal() bool { return s != StatusInProgress }

// DefaultTimeLimit bounds a single play session. A product constant, not a
// derived invariant; override via Rules.
const DefaultTimeLimit = 35 * time.Minute

// Rules are the product constants a game is played under.
type Rules struct {
	Prizes    *PrizeTable
	TimeLimit time.Duration
}

// DefaultRules returns the classic ladder with the default time limit.
func DefaultRules() Rules {
	return Rules{Prizes: DefaultPrizeTable(), TimeLimit: DefaultTimeLimit}
}

// ErrGameFinished is returned by any mutating call on a game that already
// reached a terminal status. The call changes nothing; there is never a
// double payout.
var ErrGameFinished = errors.New("game already finished")

// Game is the state machine at the center of the engine. It holds one
// question per level (contiguous 0..N-1), the progress counter and the
// terminal fields. CurrentLevel counts fully-cleared levels, so it equals
// the index of the question currently in play and reaches N only when the
// final question was answered correctly.
type Game struct {
	ID           string
	UserID       string
	CreatedAt    time.Time
	FinishedAt   *time.Time
	CurrentLevel int
	IsFailed     bool
	Prize        int64
	Questions    []GameQuestion
	Rules        Rules
}

// Finished reports whether the game reached a terminal status.
func (g *Game) Finished() bool { return g.FinishedAt != nil }

// CheckStatus derives the status from the stored fields. It is recomputed
// on every call rather than cached: the Timeout branch depends on the
// recorded timestamps and caching would risk staleness.
func (g *Game) CheckStatus() Status {
	switch {
	case g.FinishedAt == nil:
		return StatusInProgress
	case g.IsFailed && g.FinishedAt.Sub(g.CreatedAt) > g.Rules.TimeLimit:
		return StatusTimeout
	case g.IsFailed:
		return StatusFail
	case g.CurrentLevel > g.Rules.Prizes.Levels()-1:
		return StatusWon
	default:
		return StatusMoney
	}
}

// CurrentQuestion returns the question at the current level. Defined only
// while the game is in progress.
func (g *Game) CurrentQuestion() (GameQuestion, error) {
	if g.Finished() {
		return GameQuestion{}, ErrGameFinished
	}
	if g.CurrentLevel < 0 || g.CurrentLevel >= len(g.Questions) {
		return GameQuestion{}, fmt.Errorf("no question at level %d", g.CurrentLevel)
	}
	return g.Questions[g.CurrentLevel], nil
}

// PreviousLevel is the highest fully-cleared level, used to resolve
// payouts on every non-won terminal path.
func (g *Game) PreviousLevel() int {
	if g.CurrentLevel < 1 {
		return 0
	}
	return g.CurrentLevel - 1
}

// TimeLeft returns how much of the session window remains at now,
// never negative.
func (g *Game) TimeLeft(now time.Time) time.Duration {
	left := g.Rules.TimeLimit - now.Sub(g.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// ExpireIfOverdue finishes an in-progress game whose session window has
// elapsed at now: the game is failed with the fireproof guarantee as its
// prize and derives as Timeout from then on. It reports whether it fired.
// Expiry is detected lazily, on the next read or mutation attempt. There
// is no background timer.
func (g *Game) ExpireIfOverdue(now time.Time) bool {
	if g.Finished() || now.Sub(g.CreatedAt) <= g.Rules.TimeLimit {
		return false
	}
	g.finish(now, true, g.Rules.Prizes.GuaranteedPrize(g.PreviousLevel()))
	return true
}

// AnswerResult describes the effect of an answer or cash-out.
type AnswerResult struct {
	Correct bool
	Status  Status
	Level   int
	Prize   int64
}

// AnswerCurrentQuestion submits an answer key for the question at the
// current level. If the clock already expired when the answer arrives, the
// answer is not evaluated and the game finishes as timed out. A correct
// answer advances one level, finishing as Won on the last one; a wrong
// answer (including an unknown key) finishes the game with the fireproof
// guarantee as its prize.
func (g *Game) AnswerCurrentQuestion(key string, now time.Time) (AnswerResult, error) {
	if g.Finished() {
		return AnswerResult{}, ErrGameFinished
	}
	if g.ExpireIfOverdue(now) {
		return g.result(false), nil
	}

	q, err := g.CurrentQuestion()
	if err != nil {
		return AnswerResult{}, err
	}

	if !q.IsCorrect(key) {
		g.finish(now, true, g.Rules.Prizes.GuaranteedPrize(g.PreviousLevel()))
		return g.result(false), nil
	}

	g.CurrentLevel++
	if g.CurrentLevel == g.Rules.Prizes.Levels() {
		g.finish(now, false, g.Rules.Prizes.PrizeAt(g.Rules.Prizes.Levels()-1))
	}
	return g.result(true), nil
}

// TakeMoney ends the game voluntarily, banking the schedule prize for the
// highest fully-cleared level, not the fireproof floor. A cash-out is
// never a failure. An overdue cash-out attempt is treated like any late
// mutation and finishes the game as timed out instead.
func (g *Game) TakeMoney(now time.Time) (AnswerResult, error) {
	if g.Finished() {
		return AnswerResult{}, ErrGameFinished
	}
	if g.ExpireIfOverdue(now) {
		return g.result(false), nil
	}

	g.finish(now, false, g.Rules.Prizes.PrizeAt(g.PreviousLevel()))
	return g.result(false), nil
}

func (g *Game) finish(now time.Time, failed bool, prize int64) {
	t := now
	g.FinishedAt = &t
	g.IsFailed = failed
	g.Prize = prize
}

func (g *Game) result(correct bool) AnswerResult {
	return AnswerResult{
		Correct: correct,
		Status:  g.CheckStatus(),
		Level:   g.CurrentLevel,
		Prize:   g.Prize,
	}
}
