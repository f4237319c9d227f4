package millionaire

// Question is a catalog entry the factory draws from: the question text at
// a given difficulty level, its correct answer and three distractors. The
// catalog itself is owned by the question-pool collaborator.
type Question struct {
	ID          string
	Level       int
	Text        string
	Correct     string
	Distractors []string
}

// GameQuestion is one question bound to a specific level within one game.
// Variants maps answer keys ("a".."d") to answer texts, with the correct
// text placed under CorrectKey at creation time. Immutable once created.
type GameQuestion struct {
	Level      int
	Text       string
	CorrectKey string
	Variants   map[string]string
}

// IsCorrect reports whether key matches the correct answer. Keys not
// present in Variants are simply incorrect: an invalid key fails the game
// like any wrong answer instead of crashing it.
func (q GameQuestion) IsCorrect(key string) bool {
	return key == q.CorrectKey
}
