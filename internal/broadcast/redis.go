package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisBroadcaster publishes events as JSON on whot:events:<code> and
// whot:events:<code>:<playerID> channels.
type RedisBroadcaster struct {
	rdb *redis.Client
	log *logrus.Logger
}

func NewRedisBroadcaster(rdb *redis.Client, log *logrus.Logger) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb, log: log}
}

func publicChannel(roomCode string) string {
	return "whot:events:" + roomCode
}

func privateChannel(roomCode string, playerID uuid.UUID) string {
	return "whot:events:" + roomCode + ":" + playerID.String()
}

func (b *RedisBroadcaster) publish(ctx context.Context, channel string, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.Type, err)
	}
	if err := b.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		return fmt.Errorf("publish %s on %s: %w", ev.Type, channel, err)
	}
	return nil
}

func (b *RedisBroadcaster) Publish(ctx context.Context, roomCode string, ev Event) error {
	return b.publish(ctx, publicChannel(roomCode), ev)
}

func (b *RedisBroadcaster) PublishToPlayer(ctx context.Context, roomCode string, playerID uuid.UUID, ev Event) error {
	return b.publish(ctx, privateChannel(roomCode, playerID), ev)
}

func (b *RedisBroadcaster) subscribe(ctx context.Context, channel string) (<-chan Event, func(), error) {
	sub := b.rdb.Subscribe(ctx, channel)
	// Force the subscription onto the wire before we report success.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	out := make(chan Event, 32)
	go func() {
		defer close(out)
		var filter StaleFilter
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.WithError(err).WithField("channel", channel).Warn("broadcast: dropping undecodable event")
				continue
			}
			if !filter.Admit(ev) {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}

func (b *RedisBroadcaster) Subscribe(ctx context.Context, roomCode string) (<-chan Event, func(), error) {
	return b.subscribe(ctx, publicChannel(roomCode))
}

func (b *RedisBroadcaster) SubscribePlayer(ctx context.Context, roomCode string, playerID uuid.UUID) (<-chan Event, func(), error) {
	return b.subscribe(ctx, privateChannel(roomCode, playerID))
}
