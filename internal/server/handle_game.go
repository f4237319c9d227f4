package server

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

// QuestionView is the player-facing shape of a question. The correct
// answer key is never serialized.
type QuestionView struct {
	Level    int               `json:"level"`
	Text     string            `json:"text"`
	Keys     []string          `json:"keys"`
	Variants map[string]string `json:"variants"`
}

type GameResponse struct {
	GameID          string        `json:"gameId"`
	Status          string        `json:"status"`
	CurrentLevel    int           `json:"currentLevel"`
	Prize           int64         `json:"prize"`
	GuaranteedPrize int64         `json:"guaranteedPrize"`
	TimeLeftSeconds int           `json:"timeLeftSeconds"`
	PrizeTable      []int64       `json:"prizeTable"`
	FireproofLevels []int         `json:"fireproofLevels"`
	CurrentQuestion *QuestionView `json:"currentQuestion"`
	FinishedAt      *string       `json:"finishedAt,omitempty"`
}

func gameResponse(g *millionaire.Game, now time.Time) GameResponse {
	resp := GameResponse{
		GameID:          g.ID,
		Status:          string(g.CheckStatus()),
		CurrentLevel:    g.CurrentLevel,
		Prize:           g.Prize,
		GuaranteedPrize: g.Rules.Prizes.GuaranteedPrize(g.PreviousLevel()),
		TimeLeftSeconds: int(g.TimeLeft(now) / time.Second),
		PrizeTable:      g.Rules.Prizes.Amounts(),
		FireproofLevels: g.Rules.Prizes.FireproofLevels(),
	}
	if q, err := g.CurrentQuestion(); err == nil {
		resp.CurrentQuestion = questionView(q)
	}
	if g.FinishedAt != nil {
		s := formatTime(*g.FinishedAt)
		resp.FinishedAt = &s
	}
	return resp
}

func questionView(q millionaire.GameQuestion) *QuestionView {
	return &QuestionView{
		Level:    q.Level,
		Text:     q.Text,
		Keys:     sortVariantKeys(q.Variants),
		Variants: q.Variants,
	}
}

func handleCreateGame(store Store, factory *millionaire.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		game, err := factory.CreateGameForUser(r.Context(), sess.UserID)

		var activeErr *millionaire.ActiveGameError
		switch {
		case errors.As(err, &activeErr):
			// Starting while an unfinished game exists creates nothing
			// and redirects to the existing game.
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":  "a game is already in progress",
				"gameId": activeErr.Existing.ID,
			})
			return
		case errors.Is(err, millionaire.ErrInsufficientQuestionPool):
			writeError(w, http.StatusConflict, "not enough questions to fill every level")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := store.CreateGame(r.Context(), game); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, gameResponse(game, time.Now()))
	}
}

func handleCurrentGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		game, err := store.ActiveGameForUser(r.Context(), sess.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if game == nil {
			writeError(w, http.StatusNotFound, "no game in progress")
			return
		}

		// Expiry is detected lazily on reads: an overdue game is finished
		// as timed out before it is reported.
		now := time.Now()
		if game.ExpireIfOverdue(now) {
			if err := store.FinishGame(r.Context(), game); err != nil && !errors.Is(err, millionaire.ErrGameFinished) {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		writeJSON(w, http.StatusOK, gameResponse(game, now))
	}
}

func handleGetGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		game, err := loadOwnGame(r, store, sess)
		if err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		writeJSON(w, http.StatusOK, gameResponse(game, time.Now()))
	}
}

// loadOwnGame fetches the routed game and enforces ownership. Another
// user's game is indistinguishable from a missing one.
func loadOwnGame(r *http.Request, store Store, sess userSession) (*millionaire.Game, error) {
	game, err := store.GameByID(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		return nil, err
	}
	if game.UserID != sess.UserID {
		return nil, ErrNotFound
	}
	return game, nil
}

// sortVariantKeys returns a question's answer keys in display order.
func sortVariantKeys(variants map[string]string) []string {
	keys := make([]string, 0, len(variants))
	for k := range variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
