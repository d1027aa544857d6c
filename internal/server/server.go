// Package server is the WebSocket delivery shim around the room service:
// JSON command envelopes in, command results and subscribed room events out.
// It adds no game semantics of its own.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MarvelUsoroh/naijawhot/internal/broadcast"
	"github.com/MarvelUsoroh/naijawhot/internal/room"
	"github.com/MarvelUsoroh/naijawhot/internal/whot"
)

// Command is the inbound envelope.
type Command struct {
	Type     string           `json:"type"`
	RoomCode string           `json:"roomCode"`
	PlayerID uuid.UUID        `json:"playerId,omitempty"`
	CardID   int              `json:"card,omitempty"`
	Shape    whot.Shape       `json:"shape,omitempty"`
	Players  []whot.Player    `json:"players,omitempty"`
	Rules    *whot.Rules      `json:"rules,omitempty"`
	Patch    *whot.RulesPatch `json:"rulesPatch,omitempty"`
}

// Reply is the outbound envelope for direct command results; subscribed
// events are forwarded as broadcast.Event frames unchanged.
type Reply struct {
	Type      string            `json:"type"`
	OK        bool              `json:"ok"`
	Error     string            `json:"error,omitempty"`
	ErrorKind string            `json:"errorKind,omitempty"`
	GameState *whot.PublicState `json:"gameState,omitempty"`
	Cards     []whot.Card       `json:"cards,omitempty"`
	Action    whot.AutoAction   `json:"action,omitempty"`
}

// Server terminates WebSocket connections for the engine.
type Server struct {
	svc *room.Service
	bus broadcast.Broadcaster
	log *logrus.Logger
}

func New(svc *room.Service, bus broadcast.Broadcaster, log *logrus.Logger) *Server {
	return &Server{svc: svc, bus: bus, log: log}
}

// ServeHTTP upgrades and pumps one connection until it drops.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.log.WithError(err).Warn("ws accept failed")
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	writes := make(chan []byte, 64)
	go func() {
		for {
			select {
			case frame, ok := <-writes:
				if !ok {
					return
				}
				if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			s.send(writes, Reply{Type: "error", Error: "malformed command", ErrorKind: "validation"})
			continue
		}
		if cmd.Type == "subscribe" {
			if err := s.subscribe(ctx, writes, cmd); err != nil {
				s.send(writes, s.errorReply(cmd.Type, err))
			}
			continue
		}
		s.send(writes, s.dispatch(ctx, cmd))
	}
}

func (s *Server) send(writes chan<- []byte, reply Reply) {
	frame, err := json.Marshal(reply)
	if err != nil {
		return
	}
	select {
	case writes <- frame:
	default:
		s.log.Warn("ws write queue full; dropping reply")
	}
}

// subscribe relays the room's public topic, and the player's private topic
// when a playerId accompanies the request, onto this connection.
func (s *Server) subscribe(ctx context.Context, writes chan<- []byte, cmd Command) error {
	relay := func(events <-chan broadcast.Event) {
		for ev := range events {
			frame, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			select {
			case writes <- frame:
			case <-ctx.Done():
				return
			}
		}
	}

	events, cancelPub, err := s.bus.Subscribe(ctx, cmd.RoomCode)
	if err != nil {
		return err
	}
	go relay(events)
	context.AfterFunc(ctx, cancelPub)

	if cmd.PlayerID != uuid.Nil {
		private, cancelPriv, err := s.bus.SubscribePlayer(ctx, cmd.RoomCode, cmd.PlayerID)
		if err != nil {
			return err
		}
		go relay(private)
		context.AfterFunc(ctx, cancelPriv)
	}
	s.send(writes, Reply{Type: "subscribed", OK: true})
	return nil
}

func (s *Server) dispatch(ctx context.Context, cmd Command) Reply {
	switch cmd.Type {
	case "start":
		st, err := s.svc.Start(ctx, cmd.RoomCode, cmd.Players, cmd.Rules)
		return s.stateReply(cmd.Type, st, err)
	case "play":
		st, err := s.svc.Play(ctx, cmd.RoomCode, cmd.PlayerID, cmd.CardID, cmd.Shape)
		return s.stateReply(cmd.Type, st, err)
	case "draw":
		st, err := s.svc.Draw(ctx, cmd.RoomCode, cmd.PlayerID)
		return s.stateReply(cmd.Type, st, err)
	case "autoplay":
		action := s.svc.AutoPlay(ctx, cmd.RoomCode, cmd.PlayerID)
		return Reply{Type: cmd.Type, OK: true, Action: action}
	case "ready":
		st, err := s.svc.Ready(ctx, cmd.RoomCode, cmd.PlayerID)
		return s.stateReply(cmd.Type, st, err)
	case "updateRules":
		var patch whot.RulesPatch
		if cmd.Patch != nil {
			patch = *cmd.Patch
		}
		st, err := s.svc.UpdateRules(ctx, cmd.RoomCode, cmd.PlayerID, patch)
		return s.stateReply(cmd.Type, st, err)
	case "getState":
		st, err := s.svc.State(ctx, cmd.RoomCode)
		return s.stateReply(cmd.Type, st, err)
	case "getHand":
		cards, err := s.svc.Hand(ctx, cmd.RoomCode, cmd.PlayerID)
		if err != nil {
			return s.errorReply(cmd.Type, err)
		}
		return Reply{Type: cmd.Type, OK: true, Cards: cards}
	default:
		return Reply{Type: cmd.Type, Error: "unknown command type", ErrorKind: "validation"}
	}
}

func (s *Server) stateReply(cmdType string, st whot.PublicState, err error) Reply {
	if err != nil {
		return s.errorReply(cmdType, err)
	}
	return Reply{Type: cmdType, OK: true, GameState: &st}
}

func (s *Server) errorReply(cmdType string, err error) Reply {
	reply := Reply{Type: cmdType, Error: err.Error()}
	var ge *whot.GameError
	switch {
	case errors.As(err, &ge):
		reply.ErrorKind = ge.Kind.String()
	default:
		reply.ErrorKind = "internal"
		s.log.WithError(err).WithField("command", cmdType).Error("command failed")
	}
	return reply
}
