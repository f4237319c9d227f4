package millionaire

import (
	"errors"
	"testing"
	"time"
)

var testStart = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// newTestGame builds an in-progress game with one deterministic question
// per level: the correct key is always "a".
func newTestGame(t *testing.T) *Game {
	t.Helper()

	rules := DefaultRules()
	questions := make([]GameQuestion, rules.Prizes.Levels())
	for level := range questions {
		questions[level] = GameQuestion{
			Level:      level,
			Text:       "question",
			CorrectKey: "a",
			Variants:   map[string]string{"a": "right", "b": "wrong", "c": "wrong", "d": "wrong"},
		}
	}

	return &Game{
		ID:        "game-1",
		UserID:    "user-1",
		CreatedAt: testStart,
		Questions: questions,
		Rules:     rules,
	}
}

func TestNewGameInitialState(t *testing.T) {
	g := newTestGame(t)

	if g.CurrentLevel != 0 {
		t.Errorf("CurrentLevel = %d, want 0", g.CurrentLevel)
	}
	if g.FinishedAt != nil {
		t.Error("FinishedAt should be nil")
	}
	if g.Prize != 0 {
		t.Errorf("Prize = %d, want 0", g.Prize)
	}
	if got := g.CheckStatus(); got != StatusInProgress {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusInProgress)
	}
	if g.Finished() {
		t.Error("Finished() = true, want false")
	}
}

func TestCheckStatusIdempotent(t *testing.T) {
	g := newTestGame(t)

	first := g.CheckStatus()
	for i := 0; i < 5; i++ {
		if got := g.CheckStatus(); got != first {
			t.Fatalf("call %d: CheckStatus() = %q, want %q", i, got, first)
		}
	}
}

func TestAnswerCorrectContinuesGame(t *testing.T) {
	g := newTestGame(t)
	now := testStart.Add(time.Minute)

	before, err := g.CurrentQuestion()
	if err != nil {
		t.Fatalf("CurrentQuestion: %v", err)
	}

	res, err := g.AnswerCurrentQuestion(before.CorrectKey, now)
	if err != nil {
		t.Fatalf("AnswerCurrentQuestion: %v", err)
	}

	if !res.Correct {
		t.Error("result not marked correct")
	}
	if g.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %d, want 1", g.CurrentLevel)
	}
	if got := g.CheckStatus(); got != StatusInProgress {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusInProgress)
	}
	if g.Prize != 0 {
		t.Errorf("Prize = %d, want 0", g.Prize)
	}

	after, err := g.CurrentQuestion()
	if err != nil {
		t.Fatalf("CurrentQuestion: %v", err)
	}
	if after.Level != before.Level+1 {
		t.Errorf("current question level = %d, want %d", after.Level, before.Level+1)
	}
}

func TestAnswerIncorrectAtLevelZero(t *testing.T) {
	g := newTestGame(t)
	now := testStart.Add(time.Minute)

	res, err := g.AnswerCurrentQuestion("b", now)
	if err != nil {
		t.Fatalf("AnswerCurrentQuestion: %v", err)
	}

	if res.Correct {
		t.Error("result marked correct")
	}
	if got := g.CheckStatus(); got != StatusFail {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusFail)
	}
	if g.CurrentLevel != 0 {
		t.Errorf("CurrentLevel = %d, want 0", g.CurrentLevel)
	}
	if g.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}
	if g.Prize != 0 {
		t.Errorf("Prize = %d, want 0 (no fireproof level reached)", g.Prize)
	}
}

func TestAnswerUnknownKeyFailsLikeWrongAnswer(t *testing.T) {
	g := newTestGame(t)

	res, err := g.AnswerCurrentQuestion("z", testStart.Add(time.Minute))
	if err != nil {
		t.Fatalf("AnswerCurrentQuestion: %v", err)
	}
	if res.Correct {
		t.Error("unknown key marked correct")
	}
	if got := g.CheckStatus(); got != StatusFail {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusFail)
	}
}

func TestAnswerIncorrectPaysFireproofGuarantee(t *testing.T) {
	g := newTestGame(t)
	now := testStart.Add(time.Minute)

	// Clear levels 0..5, then fail at level 6: previous level 5, last
	// fireproof checkpoint reached is level 4.
	for i := 0; i < 6; i++ {
		if _, err := g.AnswerCurrentQuestion("a", now); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	if _, err := g.AnswerCurrentQuestion("b", now); err != nil {
		t.Fatalf("failing answer: %v", err)
	}

	if got := g.CheckStatus(); got != StatusFail {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusFail)
	}
	if g.Prize != 1000 {
		t.Errorf("Prize = %d, want 1000", g.Prize)
	}
}

func TestAnswerAllFifteenWins(t *testing.T) {
	g := newTestGame(t)
	now := testStart.Add(time.Minute)

	for i := 0; i < 15; i++ {
		if _, err := g.AnswerCurrentQuestion("a", now); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}

	if got := g.CheckStatus(); got != StatusWon {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusWon)
	}
	if g.Prize != 1000000 {
		t.Errorf("Prize = %d, want 1000000", g.Prize)
	}
	if g.FinishedAt == nil {
		t.Fatal("FinishedAt not set")
	}

	// Terminal: no further mutation permitted.
	if _, err := g.AnswerCurrentQuestion("a", now); !errors.Is(err, ErrGameFinished) {
		t.Errorf("answer after win: err = %v, want ErrGameFinished", err)
	}
	if _, err := g.TakeMoney(now); !errors.Is(err, ErrGameFinished) {
		t.Errorf("take money after win: err = %v, want ErrGameFinished", err)
	}
	if _, err := g.CurrentQuestion(); !errors.Is(err, ErrGameFinished) {
		t.Errorf("current question after win: err = %v, want ErrGameFinished", err)
	}
}

func TestTakeMoneyBanksClearedLevel(t *testing.T) {
	g := newTestGame(t)
	now := testStart.Add(time.Minute)

	// Two correct answers, then cash out: previous fully-cleared level is
	// 1, so the payout is the schedule prize for level 1, not the
	// fireproof floor.
	for i := 0; i < 2; i++ {
		if _, err := g.AnswerCurrentQuestion("a", now); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}

	res, err := g.TakeMoney(now)
	if err != nil {
		t.Fatalf("TakeMoney: %v", err)
	}

	if res.Prize != 200 {
		t.Errorf("Prize = %d, want 200", res.Prize)
	}
	if got := g.CheckStatus(); got != StatusMoney {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusMoney)
	}
	if g.IsFailed {
		t.Error("cash-out must never be a failure")
	}
	if g.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}

	if _, err := g.TakeMoney(now); !errors.Is(err, ErrGameFinished) {
		t.Errorf("second take money: err = %v, want ErrGameFinished", err)
	}
}

func TestTimeoutDistinctFromFail(t *testing.T) {
	g := newTestGame(t)

	// Failed long after the window closed derives as Timeout, not Fail.
	finished := testStart.Add(g.Rules.TimeLimit + time.Hour)
	g.FinishedAt = &finished
	g.IsFailed = true

	if got := g.CheckStatus(); got != StatusTimeout {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusTimeout)
	}
}

func TestLateAnswerIsNotEvaluated(t *testing.T) {
	g := newTestGame(t)
	g.CurrentLevel = 5
	late := testStart.Add(g.Rules.TimeLimit + time.Minute)

	// Even the correct key must not advance the game once the clock
	// expired; the payout is the fireproof guarantee for level 4.
	res, err := g.AnswerCurrentQuestion("a", late)
	if err != nil {
		t.Fatalf("AnswerCurrentQuestion: %v", err)
	}

	if res.Correct {
		t.Error("late answer evaluated as correct")
	}
	if g.CurrentLevel != 5 {
		t.Errorf("CurrentLevel = %d, want 5", g.CurrentLevel)
	}
	if got := g.CheckStatus(); got != StatusTimeout {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusTimeout)
	}
	if g.Prize != 1000 {
		t.Errorf("Prize = %d, want 1000", g.Prize)
	}
}

func TestLateTakeMoneyTimesOut(t *testing.T) {
	g := newTestGame(t)
	g.CurrentLevel = 2
	late := testStart.Add(g.Rules.TimeLimit + time.Minute)

	res, err := g.TakeMoney(late)
	if err != nil {
		t.Fatalf("TakeMoney: %v", err)
	}

	if res.Status != StatusTimeout {
		t.Errorf("Status = %q, want %q", res.Status, StatusTimeout)
	}
	if g.Prize != 0 {
		t.Errorf("Prize = %d, want 0 (no fireproof reached)", g.Prize)
	}
}

func TestExpireIfOverdue(t *testing.T) {
	g := newTestGame(t)

	if g.ExpireIfOverdue(testStart.Add(time.Minute)) {
		t.Fatal("expired inside the window")
	}
	if !g.ExpireIfOverdue(testStart.Add(g.Rules.TimeLimit + time.Second)) {
		t.Fatal("did not expire past the window")
	}
	if got := g.CheckStatus(); got != StatusTimeout {
		t.Errorf("CheckStatus() = %q, want %q", got, StatusTimeout)
	}
	// Second call on a finished game must not fire again.
	if g.ExpireIfOverdue(testStart.Add(2 * g.Rules.TimeLimit)) {
		t.Error("expired a finished game")
	}
}

func TestPreviousLevel(t *testing.T) {
	tests := []struct {
		currentLevel int
		want         int
	}{
		{currentLevel: 0, want: 0},
		{currentLevel: 1, want: 0},
		{currentLevel: 2, want: 1},
		{currentLevel: 14, want: 13},
		{currentLevel: 15, want: 14},
	}

	for _, tc := range tests {
		g := newTestGame(t)
		g.CurrentLevel = tc.currentLevel
		if got := g.PreviousLevel(); got != tc.want {
			t.Errorf("PreviousLevel() at level %d = %d, want %d", tc.currentLevel, got, tc.want)
		}
	}
}

func TestTimeLeft(t *testing.T) {
	g := newTestGame(t)

	if got := g.TimeLeft(testStart.Add(5 * time.Minute)); got != g.Rules.TimeLimit-5*time.Minute {
		t.Errorf("TimeLeft = %v", got)
	}
	if got := g.TimeLeft(testStart.Add(g.Rules.TimeLimit + time.Hour)); got != 0 {
		t.Errorf("TimeLeft past the window = %v, want 0", got)
	}
}
