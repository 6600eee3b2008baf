package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	logger     *slog.Logger
}

func NewManager(store Store, cookieName string, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{store: store, cookieName: cookieName, ttl: ttl, logger: logger}
}

// Middleware resolves the caller's session, creating one when the cookie is
// absent, unknown or expired, and attaches it to the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.load(r)
		if sess.New {
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(m.ttl / time.Second),
				Expires:  time.Now().Add(m.ttl),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), sess)))
	})
}

func (m *Manager) load(r *http.Request) *Session {
	c, err := r.Cookie(m.cookieName)
	if err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			data, err := m.store.Get(r.Context(), c.Value)
			if err != nil {
				m.logger.Error("load session failed", "error", err)
			}
			if data != nil {
				return &Session{ID: c.Value, Data: *data}
			}
		}
	}
	return &Session{ID: uuid.NewString(), New: true}
}

// Save persists the session's data and restarts its expiry window.
func (m *Manager) Save(r *http.Request, sess *Session) error {
	if err := m.store.Put(r.Context(), sess.ID, &sess.Data, m.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}
