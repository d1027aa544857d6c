package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Bus is an in-process Broadcaster for tests and single-node runs. Slow
// subscribers drop events rather than block the publisher; the fan-out
// contract is best effort.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

func (b *Bus) publish(channel string, ev Event) {
	b.mu.Lock()
	targets := append([]chan Event(nil), b.subs[channel]...)
	b.mu.Unlock()
	for _, ch := range targets {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Bus) Publish(ctx context.Context, roomCode string, ev Event) error {
	b.publish(publicChannel(roomCode), ev)
	return nil
}

func (b *Bus) PublishToPlayer(ctx context.Context, roomCode string, playerID uuid.UUID, ev Event) error {
	b.publish(privateChannel(roomCode, playerID), ev)
	return nil
}

func (b *Bus) subscribe(channel string) (<-chan Event, func(), error) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[channel]
		for i, c := range subs {
			if c == ch {
				b.subs[channel] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel, nil
}

func (b *Bus) Subscribe(ctx context.Context, roomCode string) (<-chan Event, func(), error) {
	return b.subscribe(publicChannel(roomCode))
}

func (b *Bus) SubscribePlayer(ctx context.Context, roomCode string, playerID uuid.UUID) (<-chan Event, func(), error) {
	return b.subscribe(privateChannel(roomCode, playerID))
}
