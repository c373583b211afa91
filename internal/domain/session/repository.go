package session

import (
	"context"
	"errors"
)

var ErrNoSession = errors.New("no active session")

// Repository persists the session between runs. The file implementation is
// the default; tests use an in-memory fake.
type Repository interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
