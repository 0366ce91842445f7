// Package session persists one snapshot and its analysis per coaching
// conversation, keyed by an opaque session id.
package session

import (
	"context"
	"errors"

	"lol-coach/internal/domain"
)

// ErrNotFound marks a session id unknown to the store, distinct from any
// analysis failure.
var ErrNotFound = errors.New("session not found")

// Store is the injected key-value contract the handlers depend on. Get must
// observe a prior Put within the same process.
type Store interface {
	Put(ctx context.Context, sess *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	AppendChat(ctx context.Context, id string, turn domain.ChatTurn) error
	PurgeExpired(ctx context.Context) (int, error)
}
