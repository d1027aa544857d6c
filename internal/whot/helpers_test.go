package whot

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.UnixMilli(1_700_000_000_000)

func testPlayers(n int) []Player {
	names := []string{"Ada", "Bayo", "Chidi", "Dami", "Efe", "Funke"}
	ps := make([]Player, n)
	for i := range ps {
		ps[i] = Player{ID: uuid.New(), DisplayName: names[i%len(names)], IsHost: i == 0}
	}
	return ps
}

// fixedGame builds a minimal started aggregate with empty hands and piles so
// tests can place exactly the cards they need.
func fixedGame(t *testing.T, players []Player, rules Rules) *GameState {
	t.Helper()
	g := &GameState{
		Players:      players,
		EffectActive: EffectNone,
		Rules:        rules,
		SessionWins:  make(map[string]int),
		PlayerHands:  make(map[string][]Card),
		GameStarted:  true,
		Direction:    1,
		RNG:          7,
	}
	for _, p := range players {
		g.PlayerHands[p.ID.String()] = nil
	}
	return g
}

func card(id int, shape Shape, rank int) Card {
	return Card{ID: id, Shape: shape, Rank: rank}
}

func wild(id int) Card {
	return Card{ID: id, Shape: ShapeWhot, Rank: RankWhot}
}

func give(g *GameState, p Player, cards ...Card) {
	g.PlayerHands[p.ID.String()] = cards
}

func mustPlay(t *testing.T, g *GameState, p Player, cardID int, declared Shape) *PlayResult {
	t.Helper()
	res, err := g.ApplyPlay(p.ID, cardID, declared, testNow)
	if err != nil {
		t.Fatalf("ApplyPlay(%s, card %d) failed: %v", p.DisplayName, cardID, err)
	}
	return res
}

func mustDraw(t *testing.T, g *GameState, p Player) *DrawResult {
	t.Helper()
	res, err := g.ApplyDraw(p.ID, testNow)
	if err != nil {
		t.Fatalf("ApplyDraw(%s) failed: %v", p.DisplayName, err)
	}
	return res
}
