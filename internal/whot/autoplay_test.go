package whot

import "testing"

func TestAutoPlayPlaysFirstLegalCard(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules())
	g.CurrentCard = card(1, ShapeCircle, 3)
	give(g, players[0],
		card(2, ShapeSquare, 7),  // no match
		card(3, ShapeCircle, 10), // first legal
		card(4, ShapeStar, 3),    // also legal, but later in hand order
	)

	out := g.AutoPlay(players[0].ID, testNow)
	if out.Action != AutoPlayed {
		t.Fatalf("action = %v, want played", out.Action)
	}
	if out.Play == nil || out.Play.Card.ID != 3 {
		t.Fatalf("auto played %+v, want card 3", out.Play)
	}
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("turn index = %d, want 1", g.CurrentPlayerIndex)
	}
}

func TestAutoPlayDrawsWithNoLegalCard(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules())
	g.CurrentCard = card(1, ShapeCircle, 3)
	give(g, players[0], card(2, ShapeSquare, 7))
	g.MarketPile = []Card{card(3, ShapeStar, 4)}

	out := g.AutoPlay(players[0].ID, testNow)
	if out.Action != AutoDrew {
		t.Fatalf("action = %v, want drew", out.Action)
	}
	if out.Draw == nil || len(out.Draw.Cards) != 1 {
		t.Fatalf("auto draw = %+v, want 1 card", out.Draw)
	}
}

func TestAutoPlayServesPenaltyDraw(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules()) // DefendPick off
	g.CurrentCard = card(1, ShapeCircle, RankPickTwo)
	g.EffectActive = EffectPickTwo
	g.PickTwoChain = 1
	give(g, players[0], card(2, ShapeSquare, RankPickTwo)) // would defend, rule off
	for i := 0; i < 3; i++ {
		g.MarketPile = append(g.MarketPile, card(10+i, ShapeStar, 1))
	}

	out := g.AutoPlay(players[0].ID, testNow)
	if out.Action != AutoDrew {
		t.Fatalf("action = %v, want drew", out.Action)
	}
	if len(out.Draw.Cards) != 2 {
		t.Errorf("penalty auto draw = %d cards, want 2", len(out.Draw.Cards))
	}
	if g.EffectActive != EffectNone {
		t.Errorf("effectActive = %v, want none", g.EffectActive)
	}
}

func TestAutoPlayDefendsChainWhenAllowed(t *testing.T) {
	rules := DefaultRules()
	rules.DefendPick = true
	players := testPlayers(3)
	g := fixedGame(t, players, rules)
	g.CurrentCard = card(1, ShapeCircle, RankPickTwo)
	g.EffectActive = EffectPickTwo
	g.PickTwoChain = 1
	initiator := players[2].ID
	g.PickEffectInitiator = &initiator
	give(g, players[0], card(2, ShapeSquare, RankPickTwo), card(3, ShapeStar, 4))
	for i := 0; i < 4; i++ {
		g.MarketPile = append(g.MarketPile, card(10+i, ShapeStar, 1))
	}

	// A legal defense beats the forced draw.
	out := g.AutoPlay(players[0].ID, testNow)
	if out.Action != AutoPlayed {
		t.Fatalf("action = %v, want played", out.Action)
	}
	if out.Play.Card.ID != 2 {
		t.Errorf("auto played card %d, want the defending 2", out.Play.Card.ID)
	}
	if g.PickTwoChain != 2 {
		t.Errorf("chain = %d, want deepened to 2", g.PickTwoChain)
	}
}

func TestAutoPlayDeclaresShapeForWildcard(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules())
	g.CurrentCard = card(1, ShapeCircle, 3)
	give(g, players[0], wild(2), card(9, ShapeSquare, 7))

	out := g.AutoPlay(players[0].ID, testNow)
	if out.Action != AutoPlayed {
		t.Fatalf("action = %v, want played", out.Action)
	}
	if !ValidShape(out.Play.Declared) {
		t.Errorf("auto wildcard declared %q, want a real shape", out.Play.Declared)
	}
	if g.SelectedShape != out.Play.Declared {
		t.Errorf("declared shape not recorded on the state")
	}
}

func TestAutoPlaySkipsWhenNotActing(t *testing.T) {
	players := testPlayers(2)
	g := fixedGame(t, players, DefaultRules())
	g.CurrentCard = card(1, ShapeCircle, 3)
	give(g, players[1], card(2, ShapeCircle, 7))
	before := g.TotalTurns

	if out := g.AutoPlay(players[1].ID, testNow); out.Action != AutoSkipped {
		t.Errorf("off-turn auto: action = %v, want skipped", out.Action)
	}

	winner := players[0].ID
	g.Winner = &winner
	if out := g.AutoPlay(players[0].ID, testNow); out.Action != AutoSkipped {
		t.Errorf("finished-round auto: action = %v, want skipped", out.Action)
	}
	if g.TotalTurns != before {
		t.Error("skipped auto-play mutated the turn counter")
	}
}
