package whot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DrawResult reports what a draw moved, for event emission. Cards is private
// to the drawing player; only its length may be broadcast.
type DrawResult struct {
	Cards      []Card
	Reshuffled bool
	// Effect is the forced effect the draw satisfied, EffectNone for a
	// plain voluntary draw.
	Effect EffectKind
}

// drawCount is the number of cards the current forced effect obliges the
// current player to draw; 1 covers both the voluntary draw and the single
// per-victim general market draw.
func (g *GameState) drawCount() int {
	switch g.EffectActive {
	case EffectPickTwo:
		return g.PickTwoChain * 2
	case EffectPickThree:
		return g.PickThreeChain * 3
	}
	return 1
}

// ApplyDraw draws from the market for playerID, who must hold the turn.
// An empty market reshuffles the discard pile (minus its top card) back in;
// if even that runs dry the draw stops short, which is valid, not an error.
func (g *GameState) ApplyDraw(playerID uuid.UUID, now time.Time) (*DrawResult, error) {
	idx, err := g.requireActing(playerID)
	if err != nil {
		return nil, err
	}

	res := &DrawResult{Effect: g.EffectActive}
	want := g.drawCount()
	hand := g.hand(playerID)
	for i := 0; i < want; i++ {
		if len(g.MarketPile) == 0 {
			if g.reshuffleDiscards() {
				res.Reshuffled = true
			} else {
				break // short draw
			}
		}
		card := g.MarketPile[0]
		g.MarketPile = g.MarketPile[1:]
		hand = append(hand, card)
		res.Cards = append(res.Cards, card)
	}
	g.setHand(playerID, hand)

	player := g.Players[idx]
	switch g.EffectActive {
	case EffectGeneralMarket:
		g.resolveGeneralMarketDraw(player)

	case EffectPickTwo, EffectPickThree:
		g.clearPickChain()
		g.advance(1)
		g.LastAction = fmt.Sprintf("%s picked %d from the market", player.DisplayName, len(res.Cards))

	default:
		g.advance(1)
		g.LastAction = fmt.Sprintf("%s went to market", player.DisplayName)
	}

	g.touchTurn(now)
	return res, nil
}

// resolveGeneralMarketDraw dequeues the victim who just drew. Control
// returns to the initiator only once the queue empties; the initiator never
// draws for their own general market.
func (g *GameState) resolveGeneralMarketDraw(player Player) {
	g.LastAction = fmt.Sprintf("%s drew for general market", player.DisplayName)
	due := g.MarketDue[:0]
	for _, id := range g.MarketDue {
		if id != player.ID {
			due = append(due, id)
		}
	}
	g.MarketDue = due
	if len(g.MarketDue) > 0 {
		g.CurrentPlayerIndex = g.indexOf(g.MarketDue[0])
		return
	}
	if g.GeneralMarketInitiator != nil {
		g.CurrentPlayerIndex = g.indexOf(*g.GeneralMarketInitiator)
	}
	g.GeneralMarketInitiator = nil
	g.MarketDue = nil
	g.EffectActive = EffectNone
}

// reshuffleDiscards rebuilds the market from the discard pile, keeping only
// the visible top card behind. Reports whether any card was recovered.
func (g *GameState) reshuffleDiscards() bool {
	if len(g.DiscardPile) <= 1 {
		return false
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	recovered := make([]Card, len(g.DiscardPile)-1)
	copy(recovered, g.DiscardPile[:len(g.DiscardPile)-1])
	g.shuffleCards(recovered)
	g.MarketPile = recovered
	g.DiscardPile = []Card{top}
	return true
}
