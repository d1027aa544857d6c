package whot

import "github.com/google/uuid"

// UpdateRules merges a partial rule change. Any seated player may propose
// one until the first successful play locks the flags for the round.
func (g *GameState) UpdateRules(playerID uuid.UUID, patch RulesPatch) error {
	if g.indexOf(playerID) < 0 {
		return notFoundf("player %s is not in this room", playerID)
	}
	if g.RulesLocked {
		return lockedRulesf("rules are locked for this round")
	}
	g.Rules.Apply(patch)
	return nil
}

// SetReady flags a player as ready for the next round (rematch flow).
func (g *GameState) SetReady(playerID uuid.UUID) error {
	idx := g.indexOf(playerID)
	if idx < 0 {
		return notFoundf("player %s is not in this room", playerID)
	}
	g.Players[idx].IsReady = true
	return nil
}
