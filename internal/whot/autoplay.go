package whot

import (
	"time"

	"github.com/google/uuid"
)

// AutoAction identifies what an auto-play resolution did.
type AutoAction string

const (
	AutoPlayed  AutoAction = "played"
	AutoDrew    AutoAction = "drew"
	AutoSkipped AutoAction = "skipped"
)

// AutoPlayOutcome reports an auto-play resolution. A skipped outcome means
// the request was a no-op (turn already moved, round over, unknown player);
// auto-play never surfaces an error.
type AutoPlayOutcome struct {
	Action AutoAction
	Play   *PlayResult
	Draw   *DrawResult
}

// AutoPlay forces an action for a stalled player, deterministically:
// if any card is legal the first one in hand order is played (a wildcard
// declares a uniformly random shape); otherwise, including under forced-draw
// effects, the player draws. Outcomes route through ApplyPlay/ApplyDraw so
// auto actions are indistinguishable from manual ones except for the log
// text the caller appends.
func (g *GameState) AutoPlay(playerID uuid.UUID, now time.Time) AutoPlayOutcome {
	if _, err := g.requireActing(playerID); err != nil {
		return AutoPlayOutcome{Action: AutoSkipped}
	}

	if legal := g.LegalPlays(playerID); len(legal) > 0 {
		card := legal[0]
		var declared Shape
		if card.IsWhot() {
			declared = g.randomShape()
		}
		pr, err := g.ApplyPlay(playerID, card.ID, declared, now)
		if err == nil {
			return AutoPlayOutcome{Action: AutoPlayed, Play: pr}
		}
		// Fall through to a draw; a legality race here means the state
		// changed underneath whoever triggered us.
	}

	dr, err := g.ApplyDraw(playerID, now)
	if err != nil {
		return AutoPlayOutcome{Action: AutoSkipped}
	}
	return AutoPlayOutcome{Action: AutoDrew, Draw: dr}
}

// randomShape picks a declarable shape uniformly from the aggregate RNG.
func (g *GameState) randomShape() Shape {
	return Shapes[g.randN(uint64(len(Shapes)))]
}
