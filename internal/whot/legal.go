package whot

import "github.com/google/uuid"

// chainRank returns the penalty rank that defends the active pick chain,
// or 0 when no chain is active.
func (g *GameState) chainRank() int {
	switch g.EffectActive {
	case EffectPickTwo:
		return RankPickTwo
	case EffectPickThree:
		return RankPickThree
	}
	return 0
}

// CanPlay reports whether card is a legal play for the current player.
//
// During an active pick chain the only legal play is a defending card of the
// chain's own rank, and only when the defend rule is on; a wildcard does not
// defend. During a general market drain no play is legal at all (the queued
// victim must draw). Outside forced effects a wildcard is always legal, and
// a plain card must match the current card by shape or rank, except after a
// wildcard where the declared shape replaces the current card's shape.
func (g *GameState) CanPlay(card Card) bool {
	switch g.EffectActive {
	case EffectPickTwo, EffectPickThree:
		return g.Rules.DefendPick && card.Rank == g.chainRank()
	case EffectGeneralMarket:
		return false
	}

	if card.IsWhot() {
		return true
	}
	if g.CurrentCard.IsWhot() && g.SelectedShape != "" {
		return card.Shape == g.SelectedShape
	}
	return card.Shape == g.CurrentCard.Shape || card.Rank == g.CurrentCard.Rank
}

// LegalPlays returns the playable cards for a player in hand order.
func (g *GameState) LegalPlays(playerID uuid.UUID) []Card {
	var legal []Card
	for _, c := range g.hand(playerID) {
		if g.CanPlay(c) {
			legal = append(legal, c)
		}
	}
	return legal
}
