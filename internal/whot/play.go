package whot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlayResult reports what a successful play did, for event emission.
type PlayResult struct {
	Card     Card
	Effect   PlayEffect
	Declared Shape
	Won      bool
}

// ApplyPlay plays the identified card from playerID's hand. declared is the
// shape a wildcard announces; it must be empty for any other card.
//
// All checks come first; the state is untouched on any error. The first
// successful play of a round locks the rule flags.
func (g *GameState) ApplyPlay(playerID uuid.UUID, cardID int, declared Shape, now time.Time) (*PlayResult, error) {
	idx, err := g.requireActing(playerID)
	if err != nil {
		return nil, err
	}

	hand := g.hand(playerID)
	cardPos := -1
	for i, c := range hand {
		if c.ID == cardID {
			cardPos = i
			break
		}
	}
	if cardPos < 0 {
		return nil, validationf("card %d is not in %s's hand", cardID, g.Players[idx].DisplayName)
	}
	card := hand[cardPos]

	if !g.CanPlay(card) {
		if rank := g.chainRank(); rank != 0 {
			return nil, illegalMovef("a pick chain is active: draw, or defend with a %d", rank)
		}
		if g.EffectActive == EffectGeneralMarket {
			return nil, illegalMovef("general market: you must draw")
		}
		return nil, illegalMovef("card %s %d does not match %s %d", card.Shape, card.Rank, g.matchShape(), g.CurrentCard.Rank)
	}

	effect := EffectForRank(card.Rank, g.Rules)
	if effect == PlayWhot {
		if !ValidShape(declared) {
			return nil, validationf("a wildcard play must declare a shape")
		}
	} else if declared != "" {
		return nil, validationf("only a wildcard play may declare a shape")
	}

	// Point of no return: mutate.
	g.RulesLocked = true
	g.setHand(playerID, append(hand[:cardPos:cardPos], hand[cardPos+1:]...))
	g.DiscardPile = append(g.DiscardPile, card)
	g.CurrentCard = card
	if effect == PlayWhot {
		g.SelectedShape = declared
	} else {
		g.SelectedShape = ""
	}

	res := &PlayResult{Card: card, Effect: effect, Declared: g.SelectedShape}
	player := g.Players[idx]
	g.LastAction = describePlay(player.DisplayName, card, g.SelectedShape)

	// Win check precedes turn resolution: a frozen round never rotates.
	remaining := len(g.hand(playerID))
	if remaining == 0 {
		if card.Rank == RankHoldOn && !g.Rules.WinWithHoldOn {
			// Hold On carve-out: the player keeps the turn with an empty
			// hand and must draw on it; no winner is declared.
			g.LastAction += " (hand empty, no win on Hold On)"
			g.touchTurn(now)
			return res, nil
		}
		winner := player.ID
		g.Winner = &winner
		g.SessionWins[winner.String()]++
		res.Won = true
		g.LastAction = fmt.Sprintf("%s wins!", player.DisplayName)
		// GameStarted stays true so the room can run an in-place rematch.
		g.touchTurn(now)
		return res, nil
	}

	g.resolveEffect(player, effect)

	switch remaining {
	case 1:
		g.LastAction += " (1 card left!)"
	case 2:
		g.LastAction += " (2 cards left)"
	}

	g.touchTurn(now)
	return res, nil
}

// resolveEffect applies the turn and chain consequences of a play.
func (g *GameState) resolveEffect(player Player, effect PlayEffect) {
	switch effect {
	case PlayHoldOn:
		// Same seat goes again; chains untouched.

	case PlayPickTwo:
		g.deepenChain(player, EffectPickTwo, &g.PickTwoChain)

	case PlayPickThree:
		g.deepenChain(player, EffectPickThree, &g.PickThreeChain)

	case PlaySuspension:
		// Skips exactly the next seat regardless of shape.
		g.advance(2)

	case PlayGeneralMarket:
		// Every other seat owes one draw, in seat order after the player.
		n := len(g.Players)
		due := make([]uuid.UUID, 0, n-1)
		start := g.indexOf(player.ID)
		for i := 1; i < n; i++ {
			due = append(due, g.Players[(start+i)%n].ID)
		}
		initiator := player.ID
		g.MarketDue = due
		g.GeneralMarketInitiator = &initiator
		g.EffectActive = EffectGeneralMarket
		g.CurrentPlayerIndex = g.indexOf(due[0])

	default:
		// PlayWhot and PlayDefault: normal rotation. A clean play clears
		// any stale chain counters; a defense never reaches this branch
		// because the effect stays active during that transition.
		g.advance(1)
		if g.EffectActive == EffectNone {
			g.PickTwoChain = 0
			g.PickThreeChain = 0
		}
	}
}

// deepenChain records one more undefended penalty play and hands the turn to
// the obligated victim. If the chain cycles back to whoever started it (the
// 2-player defense loop) it is force-cleared instead of making the initiator
// draw their own penalty.
func (g *GameState) deepenChain(player Player, kind EffectKind, counter *int) {
	*counter++
	g.EffectActive = kind
	if g.PickEffectInitiator == nil {
		initiator := player.ID
		g.PickEffectInitiator = &initiator
	}
	g.advance(1)
	if g.PickEffectInitiator != nil && g.CurrentPlayer().ID == *g.PickEffectInitiator {
		g.clearPickChain()
		g.LastAction += " (chain returned to its starter and fizzled)"
	}
}

// matchShape is the shape a plain play must match right now.
func (g *GameState) matchShape() Shape {
	if g.CurrentCard.IsWhot() && g.SelectedShape != "" {
		return g.SelectedShape
	}
	return g.CurrentCard.Shape
}

func describePlay(name string, card Card, declared Shape) string {
	if card.IsWhot() {
		return fmt.Sprintf("%s played Whot and called %s", name, declared)
	}
	return fmt.Sprintf("%s played %s %d", name, card.Shape, card.Rank)
}
