package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// MemoryStore is a map-backed Store for tests and single-node development.
// Documents round-trip through JSON on both paths so callers never alias the
// stored copy, matching the whole-document semantics of the real store.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, roomCode string) (*whot.GameState, error) {
	s.mu.Lock()
	raw, ok := s.docs[roomCode]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var g whot.GameState
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", roomCode, err)
	}
	return &g, nil
}

func (s *MemoryStore) Save(ctx context.Context, roomCode string, g *whot.GameState) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", roomCode, err)
	}
	s.mu.Lock()
	s.docs[roomCode] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, roomCode string) error {
	s.mu.Lock()
	delete(s.docs, roomCode)
	s.mu.Unlock()
	return nil
}
