package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

type SQLiteStore struct {
	db    *sql.DB
	rules millionaire.Rules
}

func NewSQLiteStore(db *sql.DB, rules millionaire.Rules) *SQLiteStore {
	return &SQLiteStore{db: db, rules: rules}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)
	`, id, email, passwordHash)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return "", ErrEmailTaken
	}
	return id, err
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE email = ?
	`, email).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, user_id)
		VALUES (lower(hex(randomblob(16))), ?)
		RETURNING id
	`, userID).Scan(&token)
	return token, err
}

func (s *SQLiteStore) UserFromToken(ctx context.Context, token string) (userSession, error) {
	var sess userSession
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, token).Scan(&sess.UserID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, errNoSession
	}
	return sess, err
}

func (s *SQLiteStore) UserBalance(ctx context.Context, userID string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, `
		SELECT balance FROM users WHERE id = ?
	`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

func (s *SQLiteStore) QuestionsAtLevel(ctx context.Context, level int) ([]millionaire.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, text, correct, distractors FROM questions WHERE level = ?
	`, level)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []millionaire.Question
	for rows.Next() {
		var q millionaire.Question
		var distractors string
		if err := rows.Scan(&q.ID, &q.Level, &q.Text, &q.Correct, &distractors); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(distractors), &q.Distractors); err != nil {
			return nil, fmt.Errorf("decoding distractors for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}

func (s *SQLiteStore) InsertQuestion(ctx context.Context, q millionaire.Question) error {
	distractors, err := json.Marshal(q.Distractors)
	if err != nil {
		return err
	}
	id := q.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (id, level, text, correct, distractors)
		VALUES (?, ?, ?, ?, ?)
	`, id, q.Level, q.Text, q.Correct, string(distractors))
	return err
}

func (s *SQLiteStore) ActiveGameForUser(ctx context.Context, userID string) (*millionaire.Game, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM games WHERE user_id = ? AND finished_at IS NULL
	`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.GameByID(ctx, id)
}

func (s *SQLiteStore) GameByID(ctx context.Context, id string) (*millionaire.Game, error) {
	g := &millionaire.Game{Rules: s.rules}
	var createdAt string
	var finishedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, current_level, is_failed, prize, created_at, finished_at
		FROM games WHERE id = ?
	`, id).Scan(&g.ID, &g.UserID, &g.CurrentLevel, &g.IsFailed, &g.Prize, &createdAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", id, err)
		}
		g.FinishedAt = &t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT level, text, correct_key, variants
		FROM game_questions WHERE game_id = ?
		ORDER BY level
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var q millionaire.GameQuestion
		var variants string
		if err := rows.Scan(&q.Level, &q.Text, &q.CorrectKey, &variants); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(variants), &q.Variants); err != nil {
			return nil, fmt.Errorf("decoding variants for game %s level %d: %w", id, q.Level, err)
		}
		g.Questions = append(g.Questions, q)
	}
	return g, rows.Err()
}

func (s *SQLiteStore) CreateGame(ctx context.Context, g *millionaire.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (id, user_id, current_level, is_failed, prize, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, g.ID, g.UserID, g.CurrentLevel, g.IsFailed, g.Prize, formatTime(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}

	for _, q := range g.Questions {
		variants, err := json.Marshal(q.Variants)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO game_questions (game_id, level, text, correct_key, variants)
			VALUES (?, ?, ?, ?, ?)
		`, g.ID, q.Level, q.Text, q.CorrectKey, string(variants))
		if err != nil {
			return fmt.Errorf("inserting game question at level %d: %w", q.Level, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveProgress(ctx context.Context, g *millionaire.Game, fromLevel int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE games SET current_level = ?
		WHERE id = ? AND finished_at IS NULL AND current_level = ?
	`, g.CurrentLevel, g.ID, fromLevel)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return millionaire.ErrGameFinished
	}
	return nil
}

func (s *SQLiteStore) FinishGame(ctx context.Context, g *millionaire.Game) error {
	if g.FinishedAt == nil {
		return fmt.Errorf("finish game %s: not in a terminal state", g.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The finished_at IS NULL guard serializes near-simultaneous terminal
	// transitions: the second writer sees zero rows and there is no
	// double payout.
	res, err := tx.ExecContext(ctx, `
		UPDATE games SET current_level = ?, is_failed = ?, prize = ?, finished_at = ?
		WHERE id = ? AND finished_at IS NULL
	`, g.CurrentLevel, g.IsFailed, g.Prize, formatTime(*g.FinishedAt), g.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return millionaire.ErrGameFinished
	}

	if g.Prize > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET balance = balance + ? WHERE id = ?
		`, g.Prize, g.UserID); err != nil {
			return fmt.Errorf("crediting balance: %w", err)
		}
	}

	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
