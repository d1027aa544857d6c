// Package store persists one room aggregate per room code with
// whole-document read/replace semantics.
package store

import (
	"context"
	"errors"

	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// ErrNotFound is returned when no aggregate exists under a room code.
var ErrNotFound = errors.New("store: room not found")

// Store is the keyed persistence collaborator. Implementations must treat
// the document as opaque and whole: a Save fully replaces whatever was
// there, and a Load returns a state the caller owns outright.
type Store interface {
	Load(ctx context.Context, roomCode string) (*whot.GameState, error)
	Save(ctx context.Context, roomCode string, g *whot.GameState) error
	Delete(ctx context.Context, roomCode string) error
}
