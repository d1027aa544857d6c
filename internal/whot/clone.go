package whot

import "encoding/json"

// Clone deep-copies the aggregate through its JSON form, the same encoding
// the store uses, so a clone is exactly what a reload would produce.
func (g *GameState) Clone() *GameState {
	raw, err := json.Marshal(g)
	if err != nil {
		panic("whot: aggregate not serializable: " + err.Error())
	}
	var c GameState
	if err := json.Unmarshal(raw, &c); err != nil {
		panic("whot: aggregate not round-trippable: " + err.Error())
	}
	return &c
}
