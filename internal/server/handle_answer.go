package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

type AnswerRequest struct {
	Key string `json:"key"`
}

type AnswerResponse struct {
	Correct      bool          `json:"correct"`
	Status       string        `json:"status"`
	CurrentLevel int           `json:"currentLevel"`
	Prize        int64         `json:"prize"`
	NextQuestion *QuestionView `json:"nextQuestion,omitempty"`
}

func handleAnswer(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Key = strings.ToLower(strings.TrimSpace(req.Key))
		if req.Key == "" {
			writeError(w, http.StatusBadRequest, "key is required")
			return
		}

		game, err := loadOwnGame(r, store, sess)
		if err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		fromLevel := game.CurrentLevel
		res, err := game.AnswerCurrentQuestion(req.Key, time.Now())
		if errors.Is(err, millionaire.ErrGameFinished) {
			writeError(w, http.StatusConflict, "game already finished")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := commitGame(r, store, game, fromLevel); err != nil {
			if errors.Is(err, millionaire.ErrGameFinished) {
				writeError(w, http.StatusConflict, "game already finished")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := AnswerResponse{
			Correct:      res.Correct,
			Status:       string(res.Status),
			CurrentLevel: res.Level,
			Prize:        res.Prize,
		}
		if q, err := game.CurrentQuestion(); err == nil {
			resp.NextQuestion = questionView(q)
		}

		if game.Finished() {
			broker.Publish(game.ID, GameEvent{
				Type:    eventGameOver,
				Level:   game.CurrentLevel,
				Status:  string(res.Status),
				Prize:   game.Prize,
				Correct: res.Correct,
			})
		} else {
			broker.Publish(game.ID, GameEvent{
				Type:    eventLevelUp,
				Level:   game.CurrentLevel,
				Correct: true,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// commitGame persists the outcome of a mutation: a terminal transition
// (with its payout) in one transaction, a plain advance otherwise. The
// store rejects the write with millionaire.ErrGameFinished if a concurrent
// request finished the game first.
func commitGame(r *http.Request, store Store, game *millionaire.Game, fromLevel int) error {
	if game.Finished() {
		return store.FinishGame(r.Context(), game)
	}
	return store.SaveProgress(r.Context(), game, fromLevel)
}
