package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// Debounced batches non-critical saves and flushes them on an interval,
// reducing store pressure under rapid turn sequences. It is a cache, not a
// lock: it gives no cross-writer correctness guarantee, and callers that
// must not lose a write (game start, a winning play) use SaveNow.
//
// The pending set is explicitly bounded; exceeding maxPending forces an
// immediate flush rather than growing without limit.
type Debounced struct {
	inner      Store
	log        *logrus.Logger
	interval   time.Duration
	maxPending int

	mu      sync.Mutex
	pending map[string][]byte
	stop    chan struct{}
	done    chan struct{}
}

// NewDebounced starts the background flusher. interval <= 0 disables
// batching entirely: every Save goes straight through.
func NewDebounced(inner Store, interval time.Duration, maxPending int, log *logrus.Logger) *Debounced {
	d := &Debounced{
		inner:      inner,
		log:        log,
		interval:   interval,
		maxPending: maxPending,
		pending:    make(map[string][]byte),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	if interval > 0 {
		go d.flushLoop()
	} else {
		close(d.done)
	}
	return d
}

// Load prefers a pending (newer) document over the inner store.
func (d *Debounced) Load(ctx context.Context, roomCode string) (*whot.GameState, error) {
	d.mu.Lock()
	raw, ok := d.pending[roomCode]
	d.mu.Unlock()
	if ok {
		var g whot.GameState
		if err := json.Unmarshal(raw, &g); err == nil {
			return &g, nil
		}
	}
	return d.inner.Load(ctx, roomCode)
}

// Save queues the document for the next flush. Errors never surface here;
// the flusher logs and retries on its next tick.
func (d *Debounced) Save(ctx context.Context, roomCode string, g *whot.GameState) error {
	if d.interval <= 0 {
		return d.inner.Save(ctx, roomCode, g)
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.pending[roomCode] = raw
	overflow := len(d.pending) > d.maxPending
	d.mu.Unlock()
	if overflow {
		d.flush(ctx)
	}
	return nil
}

// SaveNow writes through immediately, clearing any queued copy, and
// propagates the store error. Critical writes go through here.
func (d *Debounced) SaveNow(ctx context.Context, roomCode string, g *whot.GameState) error {
	d.mu.Lock()
	delete(d.pending, roomCode)
	d.mu.Unlock()
	return d.inner.Save(ctx, roomCode, g)
}

// Delete drops both the queued copy and the stored document.
func (d *Debounced) Delete(ctx context.Context, roomCode string) error {
	d.mu.Lock()
	delete(d.pending, roomCode)
	d.mu.Unlock()
	return d.inner.Delete(ctx, roomCode)
}

// Flush writes every pending document through. Failed writes are requeued
// for the next tick unless a newer save has replaced them.
func (d *Debounced) Flush(ctx context.Context) {
	d.flush(ctx)
}

func (d *Debounced) flush(ctx context.Context) {
	d.mu.Lock()
	batch := d.pending
	d.pending = make(map[string][]byte)
	d.mu.Unlock()

	for roomCode, raw := range batch {
		var g whot.GameState
		if err := json.Unmarshal(raw, &g); err != nil {
			d.log.WithError(err).WithField("room", roomCode).Error("debounce: dropping undecodable document")
			continue
		}
		if err := d.inner.Save(ctx, roomCode, &g); err != nil {
			d.log.WithError(err).WithField("room", roomCode).Warn("debounce: flush failed, will retry")
			d.mu.Lock()
			if _, replaced := d.pending[roomCode]; !replaced {
				d.pending[roomCode] = raw
			}
			d.mu.Unlock()
		}
	}
}

func (d *Debounced) flushLoop() {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.flush(context.Background())
		case <-d.stop:
			d.flush(context.Background())
			return
		}
	}
}

// Close flushes once more and stops the background loop.
func (d *Debounced) Close() {
	if d.interval > 0 {
		close(d.stop)
		<-d.done
	}
}
