package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"skouce/globals"
	"skouce/session"
	"skouce/utils"
)

// SessionID reads the session id from the header, or from the "session"
// query parameter for websocket upgrades, which cannot set headers.
func SessionID(r *http.Request) string {
	if id := r.Header.Get(globals.SessionHeader); id != "" {
		return id
	}
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("session")
	}
	return ""
}

// RequireSession loads the caller's session into the request context.
func RequireSession(store *session.Store, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := SessionID(r)
		if id == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing session")
			return
		}
		s, ok := store.Get(id)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unknown or expired session")
			return
		}
		ctx := context.WithValue(r.Context(), globals.SessionKey, s)
		next(w, r.WithContext(ctx), ps)
	}
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(globals.SessionKey).(*session.Session)
	return s, ok
}
