package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MarvelUsoroh/naijawhot/internal/broadcast"
	"github.com/MarvelUsoroh/naijawhot/internal/store"
	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// actor is a room's single writer. Every command takes mu, reads the cached
// aggregate (loading it from the store on first touch), mutates it through
// the engine, persists, and publishes. Two concurrent commands on one room
// therefore serialize instead of racing a read-modify-write cycle.
type actor struct {
	svc  *Service
	code string
	log  *logrus.Entry

	mu     sync.Mutex
	state  *whot.GameState
	loaded bool
	lastTS int64
	timer  *time.Timer
}

func newActor(svc *Service, roomCode string) *actor {
	return &actor{
		svc:  svc,
		code: roomCode,
		log:  svc.log.WithField("room", roomCode),
	}
}

// ensureLoaded populates the cache from the store. Holding mu.
func (a *actor) ensureLoaded(ctx context.Context) error {
	if a.loaded {
		return nil
	}
	g, err := a.svc.store.Load(ctx, a.code)
	switch {
	case err == nil:
		a.state = g
	case errors.Is(err, store.ErrNotFound):
		a.state = nil
	default:
		return &StorageError{Err: err}
	}
	a.loaded = true
	return nil
}

// requireState returns the aggregate or a NotFound rejection. Holding mu.
func (a *actor) requireState(ctx context.Context) (*whot.GameState, error) {
	if err := a.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if a.state == nil {
		return nil, whot.Errorf(whot.KindNotFound, "room %s not found", a.code)
	}
	return a.state, nil
}

// nextTimestamp issues a strictly increasing per-room event timestamp.
// Holding mu.
func (a *actor) nextTimestamp(now time.Time) int64 {
	ts := now.UnixMilli()
	if ts <= a.lastTS {
		ts = a.lastTS + 1
	}
	a.lastTS = ts
	return ts
}

// publish sends a public event; failure is critical and aborts the command.
func (a *actor) publish(ctx context.Context, ev broadcast.Event) error {
	if err := a.svc.bus.Publish(ctx, a.code, ev); err != nil {
		return &BroadcastError{Err: err}
	}
	return nil
}

func (a *actor) publishPrivate(ctx context.Context, playerID uuid.UUID, ev broadcast.Event) error {
	if err := a.svc.bus.PublishToPlayer(ctx, a.code, playerID, ev); err != nil {
		return &BroadcastError{Err: err}
	}
	return nil
}

// save persists the mutated aggregate. Critical writes (game start, a
// winning play) go through synchronously and propagate failure; everything
// else rides the debounce and never fails the request.
func (a *actor) save(ctx context.Context, critical bool) error {
	if critical {
		if cs, ok := a.svc.store.(criticalSaver); ok {
			if err := cs.SaveNow(ctx, a.code, a.state); err != nil {
				return &StorageError{Err: err}
			}
			return nil
		}
	}
	if err := a.svc.store.Save(ctx, a.code, a.state); err != nil {
		if critical {
			return &StorageError{Err: err}
		}
		a.log.WithError(err).Warn("debounced save failed; background flush will retry")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (a *actor) start(ctx context.Context, players []whot.Player, rules *whot.Rules) (whot.PublicState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.ensureLoaded(ctx); err != nil {
		return whot.PublicState{}, err
	}

	prior := a.state
	effective := whot.DefaultRules()
	if prior != nil {
		effective = prior.Rules
	}
	if rules != nil {
		effective = *rules
	}

	now := a.svc.now()
	g, err := whot.NewGame(players, effective, a.svc.seed(), now, prior)
	if err != nil {
		return whot.PublicState{}, err
	}

	a.state = g
	if err := a.finishStart(ctx, now); err != nil {
		a.state = prior // nothing happened
		return whot.PublicState{}, err
	}

	a.svc.rec.RecordSession(a.code, len(players), g.Rules)
	a.log.WithField("players", len(players)).Info("round started")
	a.scheduleTurnTimer()
	return g.Public(), nil
}

// finishStart publishes the per-player private deal events and the public
// snapshot, then writes the aggregate through critically.
func (a *actor) finishStart(ctx context.Context, now time.Time) error {
	g := a.state
	pub := g.Public()
	for _, p := range g.Players {
		hand, _ := g.HandOf(p.ID)
		ev := broadcast.Event{
			Type:      broadcast.TypeDeal,
			RoomCode:  a.code,
			PlayerID:  p.ID,
			Cards:     hand,
			Count:     len(hand),
			GameState: &pub,
			Timestamp: a.nextTimestamp(now),
		}
		if err := a.publishPrivate(ctx, p.ID, ev); err != nil {
			return err
		}
	}
	if err := a.publish(ctx, broadcast.Event{
		Type:      broadcast.TypeGameStarted,
		RoomCode:  a.code,
		GameState: &pub,
		Timestamp: a.nextTimestamp(now),
	}); err != nil {
		return err
	}
	return a.save(ctx, true)
}

func (a *actor) play(ctx context.Context, playerID uuid.UUID, cardID int, declared whot.Shape, auto bool) (whot.PublicState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playLocked(ctx, playerID, cardID, declared, auto)
}

func (a *actor) playLocked(ctx context.Context, playerID uuid.UUID, cardID int, declared whot.Shape, auto bool) (whot.PublicState, error) {
	g, err := a.requireState(ctx)
	if err != nil {
		return whot.PublicState{}, err
	}

	undo := g.Clone()
	now := a.svc.now()
	res, err := g.ApplyPlay(playerID, cardID, declared, now)
	if err != nil {
		return whot.PublicState{}, err
	}
	if auto {
		g.LastAction += " (auto)"
	}

	pub := g.Public()
	ev := broadcast.Event{
		Type:      broadcast.TypeCardPlayed,
		RoomCode:  a.code,
		PlayerID:  playerID,
		Card:      &res.Card,
		Shape:     res.Declared,
		GameState: &pub,
		Timestamp: a.nextTimestamp(now),
	}
	if err := a.publish(ctx, ev); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}
	if res.Won {
		if err := a.publish(ctx, broadcast.Event{
			Type:      broadcast.TypeGameWon,
			RoomCode:  a.code,
			PlayerID:  playerID,
			GameState: &pub,
			Timestamp: a.nextTimestamp(now),
		}); err != nil {
			a.state = undo
			return whot.PublicState{}, err
		}
	}
	if err := a.save(ctx, res.Won); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}

	a.svc.rec.RecordEvent(a.code, playerID, broadcast.TypeCardPlayed, map[string]any{
		"card": res.Card, "effect": res.Effect.String(), "auto": auto, "won": res.Won,
	})
	a.scheduleTurnTimer()
	return pub, nil
}

func (a *actor) draw(ctx context.Context, playerID uuid.UUID, auto bool) (whot.PublicState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drawLocked(ctx, playerID, auto)
}

func (a *actor) drawLocked(ctx context.Context, playerID uuid.UUID, auto bool) (whot.PublicState, error) {
	g, err := a.requireState(ctx)
	if err != nil {
		return whot.PublicState{}, err
	}

	undo := g.Clone()
	now := a.svc.now()
	res, err := g.ApplyDraw(playerID, now)
	if err != nil {
		return whot.PublicState{}, err
	}
	if auto {
		g.LastAction += " (auto)"
	}

	pub := g.Public()
	if err := a.publish(ctx, broadcast.Event{
		Type:      broadcast.TypeCardsDrawn,
		RoomCode:  a.code,
		PlayerID:  playerID,
		Count:     len(res.Cards),
		GameState: &pub,
		Timestamp: a.nextTimestamp(now),
	}); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}
	// The drawn cards themselves go to the drawer only.
	if err := a.publishPrivate(ctx, playerID, broadcast.Event{
		Type:      broadcast.TypeDrawnPrivate,
		RoomCode:  a.code,
		PlayerID:  playerID,
		Cards:     res.Cards,
		Count:     len(res.Cards),
		Timestamp: a.nextTimestamp(now),
	}); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}
	if err := a.save(ctx, false); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}

	a.svc.rec.RecordEvent(a.code, playerID, broadcast.TypeCardsDrawn, map[string]any{
		"count": len(res.Cards), "effect": string(res.Effect), "auto": auto,
	})
	a.scheduleTurnTimer()
	return pub, nil
}

// autoPlay resolves a stalled turn. expectTurn >= 0 is the timer path and
// guards against a turn that already moved; -1 is an explicit request,
// which additionally requires the deadline to have passed. Either way the
// caller gets an outcome, never an error.
func (a *actor) autoPlay(ctx context.Context, playerID uuid.UUID, expectTurn int) whot.AutoAction {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.requireState(ctx)
	if err != nil {
		return whot.AutoSkipped
	}
	if !g.GameStarted || g.Winner != nil {
		return whot.AutoSkipped
	}
	if expectTurn >= 0 && g.TotalTurns != expectTurn {
		return whot.AutoSkipped // stale timer; the turn already moved
	}
	now := a.svc.now()
	if expectTurn < 0 {
		deadline := g.TurnStartTime + a.svc.turnTimeout.Milliseconds()
		if a.svc.turnTimeout > 0 && now.UnixMilli() < deadline {
			return whot.AutoSkipped
		}
	}
	if g.CurrentPlayer().ID != playerID {
		return whot.AutoSkipped
	}

	// Decide on a clone so the real aggregate only moves through the same
	// play/draw paths a manual action takes.
	probe := g.Clone()
	outcome := probe.AutoPlay(playerID, now)
	switch outcome.Action {
	case whot.AutoPlayed:
		if _, err := a.playLocked(ctx, playerID, outcome.Play.Card.ID, outcome.Play.Declared, true); err != nil {
			a.log.WithError(err).Warn("auto-play lost its race; skipping")
			return whot.AutoSkipped
		}
		return whot.AutoPlayed
	case whot.AutoDrew:
		if _, err := a.drawLocked(ctx, playerID, true); err != nil {
			a.log.WithError(err).Warn("auto-draw lost its race; skipping")
			return whot.AutoSkipped
		}
		return whot.AutoDrew
	default:
		return whot.AutoSkipped
	}
}

func (a *actor) ready(ctx context.Context, playerID uuid.UUID) (whot.PublicState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.requireState(ctx)
	if err != nil {
		return whot.PublicState{}, err
	}
	undo := g.Clone()
	if err := g.SetReady(playerID); err != nil {
		return whot.PublicState{}, err
	}
	now := a.svc.now()
	pub := g.Public()
	if err := a.publish(ctx, broadcast.Event{
		Type:      broadcast.TypePlayerReady,
		RoomCode:  a.code,
		PlayerID:  playerID,
		GameState: &pub,
		Timestamp: a.nextTimestamp(now),
	}); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}
	if err := a.save(ctx, false); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}
	return pub, nil
}

func (a *actor) updateRules(ctx context.Context, playerID uuid.UUID, patch whot.RulesPatch) (whot.PublicState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.requireState(ctx)
	if err != nil {
		return whot.PublicState{}, err
	}
	undo := g.Clone()
	if err := g.UpdateRules(playerID, patch); err != nil {
		return whot.PublicState{}, err
	}
	now := a.svc.now()
	pub := g.Public()
	if err := a.publish(ctx, broadcast.Event{
		Type:      broadcast.TypeRulesUpdated,
		RoomCode:  a.code,
		PlayerID:  playerID,
		GameState: &pub,
		Timestamp: a.nextTimestamp(now),
	}); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}
	if err := a.save(ctx, false); err != nil {
		a.state = undo
		return whot.PublicState{}, err
	}
	a.svc.rec.RecordEvent(a.code, playerID, broadcast.TypeRulesUpdated, map[string]any{"rules": g.Rules})
	return pub, nil
}

func (a *actor) publicState(ctx context.Context) (whot.PublicState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g, err := a.requireState(ctx)
	if err != nil {
		return whot.PublicState{}, err
	}
	return g.Public(), nil
}

func (a *actor) handOf(ctx context.Context, playerID uuid.UUID) ([]whot.Card, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g, err := a.requireState(ctx)
	if err != nil {
		return nil, err
	}
	return g.HandOf(playerID)
}

// ---------------------------------------------------------------------------
// Turn deadline
// ---------------------------------------------------------------------------

// scheduleTurnTimer arms the per-turn deadline for the current player.
// Holding mu. The fired timer routes through the same autoPlay path as a
// client request, guarded by the turn counter captured here.
func (a *actor) scheduleTurnTimer() {
	a.stopTimerLocked()
	g := a.state
	if g == nil || !g.GameStarted || g.Winner != nil || a.svc.turnTimeout <= 0 {
		return
	}

	turn := g.TotalTurns
	playerID := g.CurrentPlayer().ID
	a.timer = time.AfterFunc(a.svc.turnTimeout, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		action := a.autoPlay(ctx, playerID, turn)
		if action != whot.AutoSkipped {
			a.log.WithFields(logrus.Fields{"player": playerID, "action": action}).Info("turn deadline enforced")
		}
	})
}

func (a *actor) stopTimer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopTimerLocked()
}

func (a *actor) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
