package whot

// PlayEffect is the resolved behavior of playing a card of a given rank
// under the current rule flags. Keeping the mapping pure and separate from
// the mutation path makes the rank dispatch independently testable.
type PlayEffect uint8

const (
	PlayDefault PlayEffect = iota
	PlayHoldOn
	PlayPickTwo
	PlayPickThree
	PlaySuspension
	PlayGeneralMarket
	PlayWhot
)

func (e PlayEffect) String() string {
	switch e {
	case PlayHoldOn:
		return "hold_on"
	case PlayPickTwo:
		return "pick_two"
	case PlayPickThree:
		return "pick_three"
	case PlaySuspension:
		return "suspension"
	case PlayGeneralMarket:
		return "general_market"
	case PlayWhot:
		return "whot"
	}
	return "default"
}

// EffectForRank maps a rank to its play effect. A special rank disabled by
// rule degrades to a plain card. The mapping is closed: every rank not
// listed behaves as PlayDefault.
func EffectForRank(rank int, r Rules) PlayEffect {
	switch rank {
	case RankHoldOn:
		return PlayHoldOn
	case RankPickTwo:
		if r.PickTwo {
			return PlayPickTwo
		}
	case RankPickThree:
		if r.PickThree {
			return PlayPickThree
		}
	case RankSuspension:
		return PlaySuspension
	case RankGeneralMarket:
		return PlayGeneralMarket
	case RankWhot:
		return PlayWhot
	}
	return PlayDefault
}
