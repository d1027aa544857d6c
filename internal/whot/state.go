package whot

import (
	"time"

	"github.com/google/uuid"
)

// Player limits. The 54-card deck supports up to 6 six-card hands with a
// market left over.
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// EffectKind is the currently active forced effect on the aggregate.
type EffectKind string

const (
	EffectNone          EffectKind = "none"
	EffectPickTwo       EffectKind = "pick_two"
	EffectPickThree     EffectKind = "pick_three"
	EffectGeneralMarket EffectKind = "general_market"
)

// Player is a seat at the table. Card count is always derived from the hand,
// never stored.
type Player struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	IsHost      bool      `json:"isHost"`
	IsReady     bool      `json:"isReady"`
}

// GameState is the whole-room aggregate, one per room code. It is the store
// document: every field, RNG included, round-trips through JSON so a room
// can be reloaded mid-round.
type GameState struct {
	Players            []Player   `json:"players"`
	CurrentCard        Card       `json:"currentCard"`
	CurrentPlayerIndex int        `json:"currentPlayerIndex"`
	SelectedShape      Shape      `json:"selectedShape,omitempty"`
	LastAction         string     `json:"lastAction"`
	GameStarted        bool       `json:"gameStarted"`
	Winner             *uuid.UUID `json:"winner,omitempty"`

	PickTwoChain   int        `json:"pickTwoChain"`
	PickThreeChain int        `json:"pickThreeChain"`
	EffectActive   EffectKind `json:"effectActive"`

	GeneralMarketInitiator *uuid.UUID  `json:"generalMarketInitiator,omitempty"`
	MarketDue              []uuid.UUID `json:"marketDue,omitempty"`
	PickEffectInitiator    *uuid.UUID  `json:"pickEffectInitiator,omitempty"`

	// Private piles and hands; never leave the server unredacted.
	MarketPile  []Card            `json:"marketPile"`
	DiscardPile []Card            `json:"discardPile"`
	PlayerHands map[string][]Card `json:"playerHands"`

	SessionWins map[string]int `json:"sessionWins"`

	Rules       Rules `json:"rules"`
	RulesLocked bool  `json:"rulesLocked"`

	TotalTurns    int   `json:"totalTurns"`
	TurnStartTime int64 `json:"turnStartTime"` // unix millis

	// Direction is reserved for a reversal variant; no transition sets it
	// away from 1.
	Direction int `json:"direction"`

	RNG uint64 `json:"rng"`
}

// NewGame creates the aggregate whole: fresh shuffle and deal, first seat to
// act. prior may be nil; when present its session win tally and rule set
// carry forward into the new round (rematch).
func NewGame(players []Player, rules Rules, seed uint64, now time.Time, prior *GameState) (*GameState, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, validationf("player count %d out of range [%d,%d]", len(players), MinPlayers, MaxPlayers)
	}
	seen := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		if p.ID == uuid.Nil {
			return nil, validationf("player %q has no id", p.DisplayName)
		}
		if seen[p.ID] {
			return nil, validationf("duplicate player id %s", p.ID)
		}
		seen[p.ID] = true
	}

	g := &GameState{
		Players:       make([]Player, len(players)),
		EffectActive:  EffectNone,
		Rules:         rules,
		SessionWins:   make(map[string]int, len(players)),
		GameStarted:   true,
		Direction:     1,
		TurnStartTime: now.UnixMilli(),
		RNG:           seed,
	}
	copy(g.Players, players)
	for i := range g.Players {
		g.Players[i].IsReady = false
	}
	if g.RNG == 0 {
		g.RNG = 1 // xorshift cannot start at 0
	}
	if prior != nil {
		for id, wins := range prior.SessionWins {
			g.SessionWins[id] = wins
		}
	}

	deck := NewDeck()
	g.shuffleCards(deck)
	g.deal(deck)
	g.LastAction = "Game started"
	return g, nil
}

// ---------------------------------------------------------------------------
// xorshift64 RNG, serialized with the aggregate for deterministic replay
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// Query helpers
// ---------------------------------------------------------------------------

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() Player {
	return g.Players[g.CurrentPlayerIndex]
}

// indexOf returns the seat index for a player id, or -1.
func (g *GameState) indexOf(playerID uuid.UUID) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Hand returns the live hand slice for a player (nil if unknown).
func (g *GameState) hand(playerID uuid.UUID) []Card {
	return g.PlayerHands[playerID.String()]
}

func (g *GameState) setHand(playerID uuid.UUID, hand []Card) {
	g.PlayerHands[playerID.String()] = hand
}

// CardsInPlay counts every card across the market, the discard pile and all
// hands. It must equal DeckSize after every transition.
func (g *GameState) CardsInPlay() int {
	n := len(g.MarketPile) + len(g.DiscardPile)
	for _, hand := range g.PlayerHands {
		n += len(hand)
	}
	return n
}

// advance rotates the turn forward by steps seats.
func (g *GameState) advance(steps int) {
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + steps) % len(g.Players)
}

// touchTurn bumps the turn counter and restarts the turn clock. Called once
// per successful mutating command.
func (g *GameState) touchTurn(now time.Time) {
	g.TotalTurns++
	g.TurnStartTime = now.UnixMilli()
}

// clearPickChain zeroes both chain counters and drops the defense-cycle guard.
func (g *GameState) clearPickChain() {
	g.PickTwoChain = 0
	g.PickThreeChain = 0
	g.PickEffectInitiator = nil
	if g.EffectActive == EffectPickTwo || g.EffectActive == EffectPickThree {
		g.EffectActive = EffectNone
	}
}

// requireActing validates that playerID exists and holds the turn.
func (g *GameState) requireActing(playerID uuid.UUID) (int, error) {
	idx := g.indexOf(playerID)
	if idx < 0 {
		return -1, notFoundf("player %s is not in this room", playerID)
	}
	if !g.GameStarted {
		return -1, validationf("round has not started")
	}
	if g.Winner != nil {
		return -1, validationf("round is over")
	}
	if idx != g.CurrentPlayerIndex {
		return -1, turnf("it is not %s's turn", g.Players[idx].DisplayName)
	}
	return idx, nil
}
