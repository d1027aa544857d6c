package whot

// Per-shape rank sets of the standard 54-card Whot deck:
// 12 circles, 12 triangles, 9 crosses, 9 squares, 7 stars, 5 wildcards.
var shapeRanks = map[Shape][]int{
	ShapeCircle:   {1, 2, 3, 4, 5, 7, 8, 10, 11, 12, 13, 14},
	ShapeTriangle: {1, 2, 3, 4, 5, 7, 8, 10, 11, 12, 13, 14},
	ShapeCross:    {1, 2, 3, 5, 7, 10, 11, 13, 14},
	ShapeSquare:   {1, 2, 3, 5, 7, 10, 11, 13, 14},
	ShapeStar:     {1, 2, 3, 4, 5, 7, 8},
}

const whotCardCount = 5

// HandSize is the number of cards dealt to each player.
const HandSize = 6

// NewDeck builds the fixed 54-card composition with sequential ids.
// Deterministic up to card identity; shuffling is the caller's job.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	id := 1
	for _, shape := range Shapes {
		for _, rank := range shapeRanks[shape] {
			deck = append(deck, Card{ID: id, Shape: shape, Rank: rank})
			id++
		}
	}
	for i := 0; i < whotCardCount; i++ {
		deck = append(deck, Card{ID: id, Shape: ShapeWhot, Rank: RankWhot})
		id++
	}
	return deck
}

// shuffleCards performs an in-place Fisher-Yates permutation driven by the
// aggregate's own RNG, so a serialized state replays deterministically.
func (g *GameState) shuffleCards(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// deal slices hands of HandSize off the shuffled deck, selects the start
// card (skipping forward past wildcard candidates), and leaves the
// remainder as the market pile. With 2-6 players at 6 cards each out of 54
// a non-wildcard start card always exists.
func (g *GameState) deal(deck []Card) {
	g.PlayerHands = make(map[string][]Card, len(g.Players))
	pos := 0
	for _, p := range g.Players {
		hand := make([]Card, HandSize)
		copy(hand, deck[pos:pos+HandSize])
		g.PlayerHands[p.ID.String()] = hand
		pos += HandSize
	}

	// Start card: next non-wildcard; skipped wildcards sink to the bottom
	// of the market so composition is preserved.
	var skipped []Card
	for deck[pos].IsWhot() {
		skipped = append(skipped, deck[pos])
		pos++
	}
	g.CurrentCard = deck[pos]
	g.DiscardPile = []Card{deck[pos]}
	pos++

	g.MarketPile = make([]Card, 0, len(deck)-pos+len(skipped))
	g.MarketPile = append(g.MarketPile, deck[pos:]...)
	g.MarketPile = append(g.MarketPile, skipped...)
}
