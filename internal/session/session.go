// Package session carries a client's last submission between requests in a
// short-lived, cookie-keyed server-side slot.
package session

import (
	"context"
	"time"

	"github.com/vbonduro/shopupload/internal/domain"
)

// Data is what a session stores.
type Data struct {
	Product   *domain.Submission `json:"product,omitempty"`
	ExpiresAt time.Time          `json:"expiresAt"`
}

// Store persists session data by session ID. Get returns (nil, nil) for a
// missing or expired session.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Put(ctx context.Context, id string, data *Data, ttl time.Duration) error
}

// Session is the request-scoped view of a client's session.
type Session struct {
	ID   string
	Data Data
	// New is set when the session was created for this request.
	New bool
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by Manager.Middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
