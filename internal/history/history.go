// Package history records best-effort analytics rows: one session per
// started round, one event per mutating command. It is outside the game's
// correctness envelope; failures are logged and swallowed and a nil
// *Recorder is safe everywhere.
package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS whot_sessions (
    id           BIGSERIAL PRIMARY KEY,
    room_code    TEXT        NOT NULL,
    player_count INT         NOT NULL,
    rules        JSONB       NOT NULL,
    started_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS whot_events (
    id         BIGSERIAL PRIMARY KEY,
    room_code  TEXT        NOT NULL,
    actor_id   UUID,
    event_type TEXT        NOT NULL,
    payload    JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS whot_events_room_idx ON whot_events (room_code, created_at);
`

// Recorder writes session and event rows through a pgx pool.
type Recorder struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// New connects, applies the schema, and returns the recorder.
func New(ctx context.Context, databaseURL string, log *logrus.Logger) (*Recorder, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}
	return &Recorder{pool: pool, log: log}, nil
}

// RecordSession inserts a session row for a started round.
func (r *Recorder) RecordSession(roomCode string, playerCount int, rules any) {
	if r == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		rulesJSON, _ := json.Marshal(rules)
		_, err := r.pool.Exec(ctx,
			`INSERT INTO whot_sessions (room_code, player_count, rules) VALUES ($1, $2, $3)`,
			roomCode, playerCount, rulesJSON)
		if err != nil {
			r.log.WithError(err).WithField("room", roomCode).Warn("history: session insert failed")
		}
	}()
}

// RecordEvent inserts an event row for a mutating command.
func (r *Recorder) RecordEvent(roomCode string, actorID uuid.UUID, eventType string, payload map[string]any) {
	if r == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		var payloadJSON []byte
		if payload != nil {
			payloadJSON, _ = json.Marshal(payload)
		}
		var actor any
		if actorID != uuid.Nil {
			actor = actorID
		}
		_, err := r.pool.Exec(ctx,
			`INSERT INTO whot_events (room_code, actor_id, event_type, payload) VALUES ($1, $2, $3, $4)`,
			roomCode, actor, eventType, payloadJSON)
		if err != nil {
			r.log.WithError(err).WithField("room", roomCode).Warn("history: event insert failed")
		}
	}()
}

// Close releases the pool. Safe on nil.
func (r *Recorder) Close() {
	if r != nil {
		r.pool.Close()
	}
}
