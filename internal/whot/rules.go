package whot

// Rules holds the configurable rule flags for one round. Mutable only while
// the aggregate's RulesLocked flag is false; the first successful play locks
// them for the rest of the round.
type Rules struct {
	// PickTwo enables rank 2 as a forced-draw penalty card.
	PickTwo bool `json:"pickTwo"`

	// PickThree enables rank 5 as a forced-draw penalty card.
	PickThree bool `json:"pickThree"`

	// DefendPick allows answering an active pick chain with a card of the
	// same penalty rank, deepening the chain instead of drawing.
	DefendPick bool `json:"defendPick"`

	// WinWithHoldOn controls whether emptying the hand with a rank-1 card
	// counts as a win. When false the player keeps the turn with an empty
	// hand and must draw.
	WinWithHoldOn bool `json:"winWithHoldOn"`
}

// DefaultRules returns the baseline rule set for a fresh room.
func DefaultRules() Rules {
	return Rules{
		PickTwo:       true,
		PickThree:     true,
		DefendPick:    false,
		WinWithHoldOn: false,
	}
}

// RulesPatch is a partial rules update; nil fields are left untouched.
type RulesPatch struct {
	PickTwo       *bool `json:"pickTwo,omitempty"`
	PickThree     *bool `json:"pickThree,omitempty"`
	DefendPick    *bool `json:"defendPick,omitempty"`
	WinWithHoldOn *bool `json:"winWithHoldOn,omitempty"`
}

// Apply merges the patch field by field.
func (r *Rules) Apply(p RulesPatch) {
	if p.PickTwo != nil {
		r.PickTwo = *p.PickTwo
	}
	if p.PickThree != nil {
		r.PickThree = *p.PickThree
	}
	if p.DefendPick != nil {
		r.DefendPick = *p.DefendPick
	}
	if p.WinWithHoldOn != nil {
		r.WinWithHoldOn = *p.WinWithHoldOn
	}
}
