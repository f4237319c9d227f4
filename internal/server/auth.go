package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errNoSession = errors.New("no valid session")

type ctxKey int

const ctxKeyUser ctxKey = iota

// userFromRequest resolves the Bearer session token to a user.
func userFromRequest(r *http.Request, store Store) (userSession, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return userSession{}, errNoSession
	}
	return store.UserFromToken(r.Context(), token)
}

// authMiddleware rejects unauthenticated requests and stashes the caller's
// session in the request context.
func authMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := userFromRequest(r, store)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) userSession {
	return r.Context().Value(ctxKeyUser).(userSession)
}
