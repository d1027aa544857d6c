// Package room is the authoritative engine service: it owns one single-writer
// actor per room code, runs every command through the pure state machine in
// internal/whot, persists the aggregate through the keyed store, and fans the
// redacted result out on the broadcast channel.
package room

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MarvelUsoroh/naijawhot/internal/broadcast"
	"github.com/MarvelUsoroh/naijawhot/internal/history"
	"github.com/MarvelUsoroh/naijawhot/internal/store"
	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// DefaultTurnTimeout is the per-turn deadline after which anyone may force
// an auto-play for the stalled player.
const DefaultTurnTimeout = 30 * time.Second

// criticalSaver is implemented by stores that distinguish a synchronous
// write-through from a debounced save (store.Debounced does).
type criticalSaver interface {
	SaveNow(ctx context.Context, roomCode string, g *whot.GameState) error
}

// Service is the transport-agnostic command surface for room play.
type Service struct {
	store       store.Store
	bus         broadcast.Broadcaster
	rec         *history.Recorder
	log         *logrus.Logger
	turnTimeout time.Duration

	// now and seed are swappable for tests.
	now  func() time.Time
	seed func() uint64

	mu     sync.Mutex
	actors map[string]*actor
}

// Option configures a Service.
type Option func(*Service)

// WithTurnTimeout overrides the 30s per-turn deadline. Zero disables the
// server-side timer entirely (auto-play requests still work).
func WithTurnTimeout(d time.Duration) Option {
	return func(s *Service) { s.turnTimeout = d }
}

// WithHistory attaches the best-effort analytics recorder.
func WithHistory(rec *history.Recorder) Option {
	return func(s *Service) { s.rec = rec }
}

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSeed overrides the shuffle seed source (tests).
func WithSeed(seed func() uint64) Option {
	return func(s *Service) { s.seed = seed }
}

// New builds the service around a store and a broadcaster.
func New(st store.Store, bus broadcast.Broadcaster, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store:       st,
		bus:         bus,
		log:         log,
		turnTimeout: DefaultTurnTimeout,
		now:         time.Now,
		seed:        randomSeed,
		actors:      make(map[string]*actor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// actorFor returns the room's single writer, creating it on first touch.
func (s *Service) actorFor(roomCode string) *actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.actors[roomCode]
	if !ok {
		a = newActor(s, roomCode)
		s.actors[roomCode] = a
	}
	return a
}

// Start shuffles and deals a fresh round for the room, replacing any prior
// aggregate. On a rematch the prior session win tally carries forward, and
// the prior rules are the defaults when rules is nil.
func (s *Service) Start(ctx context.Context, roomCode string, players []whot.Player, rules *whot.Rules) (whot.PublicState, error) {
	return s.actorFor(roomCode).start(ctx, players, rules)
}

// Play plays one card for a player. declared must accompany a wildcard.
func (s *Service) Play(ctx context.Context, roomCode string, playerID uuid.UUID, cardID int, declared whot.Shape) (whot.PublicState, error) {
	return s.actorFor(roomCode).play(ctx, playerID, cardID, declared, false)
}

// Draw sends the current player to market.
func (s *Service) Draw(ctx context.Context, roomCode string, playerID uuid.UUID) (whot.PublicState, error) {
	return s.actorFor(roomCode).draw(ctx, playerID, false)
}

// AutoPlay forces the stalled player's action once their deadline has
// passed. Invocable by anyone, idempotent, and silent: it reports what it
// did (possibly nothing) and never returns an error.
func (s *Service) AutoPlay(ctx context.Context, roomCode string, playerID uuid.UUID) whot.AutoAction {
	return s.actorFor(roomCode).autoPlay(ctx, playerID, -1)
}

// Ready flags a player as ready for a rematch.
func (s *Service) Ready(ctx context.Context, roomCode string, playerID uuid.UUID) (whot.PublicState, error) {
	return s.actorFor(roomCode).ready(ctx, playerID)
}

// UpdateRules merges a partial rule change proposed by a seated player.
func (s *Service) UpdateRules(ctx context.Context, roomCode string, playerID uuid.UUID, patch whot.RulesPatch) (whot.PublicState, error) {
	return s.actorFor(roomCode).updateRules(ctx, playerID, patch)
}

// State returns the redacted public projection.
func (s *Service) State(ctx context.Context, roomCode string) (whot.PublicState, error) {
	return s.actorFor(roomCode).publicState(ctx)
}

// Hand returns one player's private hand.
func (s *Service) Hand(ctx context.Context, roomCode string, playerID uuid.UUID) ([]whot.Card, error) {
	return s.actorFor(roomCode).handOf(ctx, playerID)
}

// Close stops every room's turn timer. Pending debounced writes are the
// store wrapper's to flush.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.actors {
		a.stopTimer()
	}
}
