package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// roomTTL bounds how long an abandoned room document lingers. Every save
// refreshes it, so live rooms never expire.
const roomTTL = 24 * time.Hour

// RedisStore keeps each aggregate as a JSON document under whot:room:<code>.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func roomKey(roomCode string) string {
	return "whot:room:" + roomCode
}

// Load fetches and decodes the aggregate for a room code.
func (s *RedisStore) Load(ctx context.Context, roomCode string) (*whot.GameState, error) {
	raw, err := s.rdb.Get(ctx, roomKey(roomCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get room %s: %w", roomCode, err)
	}
	var g whot.GameState
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", roomCode, err)
	}
	return &g, nil
}

// Save replaces the aggregate document for a room code.
func (s *RedisStore) Save(ctx context.Context, roomCode string, g *whot.GameState) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", roomCode, err)
	}
	if err := s.rdb.Set(ctx, roomKey(roomCode), raw, roomTTL).Err(); err != nil {
		return fmt.Errorf("redis set room %s: %w", roomCode, err)
	}
	return nil
}

// Delete removes the aggregate document for a room code.
func (s *RedisStore) Delete(ctx context.Context, roomCode string) error {
	if err := s.rdb.Del(ctx, roomKey(roomCode)).Err(); err != nil {
		return fmt.Errorf("redis del room %s: %w", roomCode, err)
	}
	return nil
}
