// Package broadcast fans redacted room updates out to subscribers, one
// publish/subscribe topic per room plus one private topic per player.
package broadcast

import (
	"context"

	"github.com/google/uuid"

	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// Event types published by the room service.
const (
	TypeGameStarted  = "game_started"
	TypeDeal         = "deal" // private: a player's dealt hand
	TypeCardPlayed   = "card_played"
	TypeCardsDrawn   = "cards_drawn"
	TypeDrawnPrivate = "drawn_private" // private: the drawn cards themselves
	TypeRulesUpdated = "rules_updated"
	TypePlayerReady  = "player_ready"
	TypeGameWon      = "game_won"
)

// Event is the wire envelope for every state-bearing message. GameState is
// always the redacted public projection; Cards appears only on private
// topics. Timestamp increases monotonically per room so subscribers can
// discard anything not strictly newer than the last event they applied.
type Event struct {
	Type      string            `json:"type"`
	RoomCode  string            `json:"roomCode"`
	PlayerID  uuid.UUID         `json:"playerId,omitempty"`
	Card      *whot.Card        `json:"card,omitempty"`
	Cards     []whot.Card       `json:"cards,omitempty"`
	Shape     whot.Shape        `json:"shape,omitempty"`
	Count     int               `json:"count,omitempty"`
	GameState *whot.PublicState `json:"gameState,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Broadcaster is the fan-out collaborator. Publish order is preserved per
// sender; no cross-instance ordering is guaranteed beyond the timestamp.
type Broadcaster interface {
	// Publish sends to every subscriber of the room's public topic.
	Publish(ctx context.Context, roomCode string, ev Event) error
	// PublishToPlayer sends to one player's private topic.
	PublishToPlayer(ctx context.Context, roomCode string, playerID uuid.UUID, ev Event) error
	// Subscribe follows the room's public topic until cancel is called.
	Subscribe(ctx context.Context, roomCode string) (events <-chan Event, cancel func(), err error)
	// SubscribePlayer follows one player's private topic.
	SubscribePlayer(ctx context.Context, roomCode string, playerID uuid.UUID) (events <-chan Event, cancel func(), err error)
}

// StaleFilter drops events that are not strictly newer than the newest one
// already admitted. Apply one per subscription stream.
type StaleFilter struct {
	last int64
}

// Admit reports whether ev should be applied, and remembers it if so.
func (f *StaleFilter) Admit(ev Event) bool {
	if ev.Timestamp <= f.last {
		return false
	}
	f.last = ev.Timestamp
	return true
}
