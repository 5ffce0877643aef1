package web

import (
	"net/http"

	"github.com/JonMunkholm/regform/internal/core"
	"github.com/JonMunkholm/regform/internal/logging"
	"github.com/google/uuid"
)

// withSession resolves the session cookie to a live form session, opening a
// new one when the cookie is missing, malformed or expired. The id is stored
// in the request context (see core.SessionIDFromContext).
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, ok := s.sessionFromCookie(r)
		if !ok {
			newID, err := s.service.NewSession(ctx)
			if err != nil {
				s.respondError(w, r, err, 0)
				return
			}
			id = newID
			http.SetCookie(w, s.sessionCookie(id))
			logging.FromContext(ctx).Debug("session cookie issued", "session_id", id)
		}

		ctx = core.ContextWithSessionID(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) sessionFromCookie(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(s.cfg.Session.CookieName)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	if _, err := s.service.Snapshot(r.Context(), id); err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) sessionCookie(id uuid.UUID) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionID returns the session resolved by withSession.
func sessionID(r *http.Request) uuid.UUID {
	return core.SessionIDFromContext(r.Context())
}
