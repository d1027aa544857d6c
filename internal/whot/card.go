// Package whot implements the Nigerian Whot card game rules.
//
// The package is a pure state machine over a single room aggregate: every
// mutating entry point validates its full precondition set before touching
// anything, so a failed command leaves the state exactly as it found it.
// All I/O (persistence, broadcast fan-out, turn timers) lives in
// internal/room.
package whot

// Shape is a card suit. Rank-20 wildcards carry ShapeWhot as a placeholder.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeTriangle Shape = "triangle"
	ShapeCross    Shape = "cross"
	ShapeSquare   Shape = "square"
	ShapeStar     Shape = "star"
	ShapeWhot     Shape = "whot"
)

// Shapes lists the five playable shapes a wildcard may declare.
var Shapes = [5]Shape{ShapeCircle, ShapeTriangle, ShapeCross, ShapeSquare, ShapeStar}

// Special ranks.
const (
	RankHoldOn        = 1
	RankPickTwo       = 2
	RankPickThree     = 5
	RankSuspension    = 8
	RankGeneralMarket = 14
	RankWhot          = 20
)

// DeckSize is the fixed card count of a Whot deck.
const DeckSize = 54

// Card is an immutable deck entry. IDs are assigned once by NewDeck and
// survive shuffles and reshuffles, so clients can reference cards stably.
type Card struct {
	ID    int   `json:"id"`
	Shape Shape `json:"shape"`
	Rank  int   `json:"rank"`
}

// IsWhot reports whether the card is the rank-20 wildcard.
func (c Card) IsWhot() bool { return c.Rank == RankWhot }

// ValidShape reports whether s is one of the five declarable shapes.
func ValidShape(s Shape) bool {
	for _, v := range Shapes {
		if v == s {
			return true
		}
	}
	return false
}
