package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/hotseatgames/millionaire/internal/millionaire"
)

type TakeMoneyResponse struct {
	Status       string `json:"status"`
	CurrentLevel int    `json:"currentLevel"`
	Prize        int64  `json:"prize"`
	Balance      int64  `json:"balance"`
}

func handleTakeMoney(store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		game, err := loadOwnGame(r, store, sess)
		if err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}

		res, err := game.TakeMoney(time.Now())
		if errors.Is(err, millionaire.ErrGameFinished) {
			writeError(w, http.StatusConflict, "game already finished")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// The payout credit and the terminal commit are one transaction.
		if err := store.FinishGame(r.Context(), game); err != nil {
			if errors.Is(err, millionaire.ErrGameFinished) {
				writeError(w, http.StatusConflict, "game already finished")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(game.ID, GameEvent{
			Type:   eventGameOver,
			Level:  game.CurrentLevel,
			Status: string(res.Status),
			Prize:  game.Prize,
		})

		balance, err := store.UserBalance(r.Context(), sess.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, TakeMoneyResponse{
			Status:       string(res.Status),
			CurrentLevel: game.CurrentLevel,
			Prize:        game.Prize,
			Balance:      balance,
		})
	}
}
