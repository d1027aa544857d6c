package whot

import "testing"

func TestDrawRequiresTurn(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules())
	g.MarketPile = []Card{card(1, ShapeCircle, 3)}

	if _, err := g.ApplyDraw(players[1].ID, testNow); !IsTurnError(err) {
		t.Fatalf("out-of-turn draw: err = %v, want turn error", err)
	}
}

func TestVoluntaryDrawTakesOneAndRotates(t *testing.T) {
	players := testPlayers(3)
	g := fixedGame(t, players, DefaultRules())
	top := card(1, ShapeCircle, 3)
	g.MarketPile = []Card{top, card(2, ShapeSquare, 7)}

	res := mustDraw(t, g, players[0])
	if len(res.Cards) != 1 || res.Cards[0] != top {
		t.Fatalf("drawn = %v, want the market top", res.Cards)
	}
	if res.Effect != EffectNone {
		t.Errorf("effect = %v, want none", res.Effect)
	}
	if got := g.hand(players[0].ID); len(got) != 1 || got[0] != top {
		t.Errorf("hand = %v, want the drawn card", got)
	}
	if len(g.MarketPile) != 1 {
		t.Errorf("market = %d cards, want 1", len(g.MarketPile))
	}
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("turn index = %d, want 1", g.CurrentPlayerIndex)
	}
}

func TestChainDrawMultiplier(t *testing.T) {
	tests := []struct {
		name   string
		effect EffectKind
		chain  int
		want   int
	}{
		{"pick two x1", EffectPickTwo, 1, 2},
		{"pick two x2", EffectPickTwo, 2, 4},
		{"pick three x1", EffectPickThree, 1, 3},
		{"pick three x2", EffectPickThree, 2, 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			players := testPlayers(2)
			g := fixedGame(t, players, DefaultRules())
			g.EffectActive = tc.effect
			if tc.effect == EffectPickTwo {
				g.PickTwoChain = tc.chain
			} else {
				g.PickThreeChain = tc.chain
			}
			initiator := players[1].ID
			g.PickEffectInitiator = &initiator
			for i := 0; i < 8; i++ {
				g.MarketPile = append(g.MarketPile, card(10+i, ShapeStar, 1))
			}

			res := mustDraw(t, g, players[0])
			if len(res.Cards) != tc.want {
				t.Fatalf("drawn %d cards, want %d", len(res.Cards), tc.want)
			}
			if res.Effect != tc.effect {
				t.Errorf("result effect = %v, want %v", res.Effect, tc.effect)
			}
			if g.EffectActive != EffectNone || g.PickTwoChain != 0 || g.PickThreeChain != 0 {
				t.Error("chain state not cleared after the penalty draw")
			}
			if g.PickEffectInitiator != nil {
				t.Error("initiator not cleared")
			}
			if g.CurrentPlayerIndex != 1 {
				t.Errorf("turn index = %d, want 1", g.CurrentPlayerIndex)
			}
		})
	}
}

func TestGeneralMarketDrain(t *testing.T) {
	players := testPlayers(4)
	g := fixedGame(t, players, DefaultRules())
	g.CurrentCard = card(1, ShapeCircle, 3)
	g.CurrentPlayerIndex = 1
	give(g, players[1], card(2, ShapeCircle, RankGeneralMarket), card(9, ShapeStar, 4))
	for i := 0; i < 6; i++ {
		g.MarketPile = append(g.MarketPile, card(20+i, ShapeStar, 1))
	}

	mustPlay(t, g, players[1], 2, "")

	// Victims drain in seat order: 2, 3, 0.
	for _, seat := range []int{2, 3} {
		res := mustDraw(t, g, players[seat])
		if len(res.Cards) != 1 {
			t.Fatalf("seat %d drew %d cards, want 1", seat, len(res.Cards))
		}
		if res.Effect != EffectGeneralMarket {
			t.Errorf("seat %d result effect = %v", seat, res.Effect)
		}
	}
	if g.CurrentPlayerIndex != 0 {
		t.Fatalf("turn index = %d, want last victim", g.CurrentPlayerIndex)
	}
	mustDraw(t, g, players[0])

	// Queue empty: control returns to the initiator, who never draws.
	if g.EffectActive != EffectNone {
		t.Errorf("effectActive = %v, want none", g.EffectActive)
	}
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("turn index = %d, want initiator", g.CurrentPlayerIndex)
	}
	if g.GeneralMarketInitiator != nil || len(g.MarketDue) != 0 {
		t.Error("drain bookkeeping not cleared")
	}
	if got := len(g.hand(players[1].ID)); got != 1 {
		t.Errorf("initiator hand = %d cards, want untouched 1", got)
	}
}

func TestDrawReshufflesEmptyMarket(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules())
	top := card(1, ShapeCircle, 3)
	g.CurrentCard = top
	g.DiscardPile = []Card{card(2, ShapeSquare, 7), card(3, ShapeStar, 4), top}

	res := mustDraw(t, g, players[0])
	if !res.Reshuffled {
		t.Fatal("empty market should trigger a reshuffle")
	}
	if len(res.Cards) != 1 {
		t.Fatalf("drawn %d cards, want 1", len(res.Cards))
	}
	if len(g.DiscardPile) != 1 || g.DiscardPile[0] != top {
		t.Errorf("discard after reshuffle = %v, want only the top card", g.DiscardPile)
	}
	// 3 discards: top stays, 2 recovered, 1 drawn.
	if len(g.MarketPile) != 1 {
		t.Errorf("market after reshuffle = %d cards, want 1", len(g.MarketPile))
	}
	if g.CardsInPlay() != 3 {
		t.Errorf("cards in play = %d, want 3", g.CardsInPlay())
	}
}

func TestDrawStopsShortWhenDry(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules())
	g.CurrentCard = card(1, ShapeCircle, 3)
	g.DiscardPile = []Card{g.CurrentCard} // nothing to recover
	g.EffectActive = EffectPickTwo
	g.PickTwoChain = 1
	g.MarketPile = []Card{card(2, ShapeSquare, 7)}

	res := mustDraw(t, g, players[0])
	if len(res.Cards) != 1 {
		t.Fatalf("dry market: drew %d cards, want the 1 available", len(res.Cards))
	}
	if g.EffectActive != EffectNone {
		t.Errorf("short penalty draw must still clear the chain, got %v", g.EffectActive)
	}
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("turn index = %d, want 1", g.CurrentPlayerIndex)
	}
}

func TestDrawConservesCards(t *testing.T) {
	g, err := NewGame(testPlayers(4), DefaultRules(), 5, testNow, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		mustDraw(t, g, g.CurrentPlayer())
		if got := g.CardsInPlay(); got != DeckSize {
			t.Fatalf("after draw %d: cards in play = %d, want %d", i+1, got, DeckSize)
		}
	}
}
