package whot

import "github.com/google/uuid"

// PublicPlayer is a seat as every client may see it. CardCount is derived
// from the hand at projection time.
type PublicPlayer struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	IsHost      bool      `json:"isHost"`
	IsReady     bool      `json:"isReady"`
	CardCount   int       `json:"cardCount"`
	SessionWins int       `json:"sessionWins"`
}

// PublicState is the shared projection of the aggregate. It carries pile
// sizes, never pile contents, and no hand beyond its length; it is the only
// state shape that may leave the server on the public topic or a state read.
type PublicState struct {
	Players            []PublicPlayer `json:"players"`
	CurrentCard        Card           `json:"currentCard"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	SelectedShape      Shape          `json:"selectedShape,omitempty"`
	LastAction         string         `json:"lastAction"`
	GameStarted        bool           `json:"gameStarted"`
	Winner             *uuid.UUID     `json:"winner,omitempty"`
	PickTwoChain       int            `json:"pickTwoChain"`
	PickThreeChain     int            `json:"pickThreeChain"`
	EffectActive       EffectKind     `json:"effectActive"`
	MarketDue          []uuid.UUID    `json:"marketDue,omitempty"`
	MarketCount        int            `json:"marketCount"`
	DiscardCount       int            `json:"discardCount"`
	Rules              Rules          `json:"rules"`
	RulesLocked        bool           `json:"rulesLocked"`
	TotalTurns         int            `json:"totalTurns"`
	TurnStartTime      int64          `json:"turnStartTime"`
}

// Public derives the shared projection. Exactly two projections exist, this
// one and HandOf; every broadcast and state fetch goes through one of them.
func (g *GameState) Public() PublicState {
	pub := PublicState{
		Players:            make([]PublicPlayer, len(g.Players)),
		CurrentCard:        g.CurrentCard,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		SelectedShape:      g.SelectedShape,
		LastAction:         g.LastAction,
		GameStarted:        g.GameStarted,
		PickTwoChain:       g.PickTwoChain,
		PickThreeChain:     g.PickThreeChain,
		EffectActive:       g.EffectActive,
		MarketCount:        len(g.MarketPile),
		DiscardCount:       len(g.DiscardPile),
		Rules:              g.Rules,
		RulesLocked:        g.RulesLocked,
		TotalTurns:         g.TotalTurns,
		TurnStartTime:      g.TurnStartTime,
	}
	if g.Winner != nil {
		w := *g.Winner
		pub.Winner = &w
	}
	if len(g.MarketDue) > 0 {
		pub.MarketDue = append([]uuid.UUID(nil), g.MarketDue...)
	}
	for i, p := range g.Players {
		pub.Players[i] = PublicPlayer{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			IsHost:      p.IsHost,
			IsReady:     p.IsReady,
			CardCount:   len(g.hand(p.ID)),
			SessionWins: g.SessionWins[p.ID.String()],
		}
	}
	return pub
}

// HandOf is the private projection: one player's own hand, copied.
func (g *GameState) HandOf(playerID uuid.UUID) ([]Card, error) {
	if g.indexOf(playerID) < 0 {
		return nil, notFoundf("player %s is not in this room", playerID)
	}
	hand := g.hand(playerID)
	out := make([]Card, len(hand))
	copy(out, hand)
	return out, nil
}
