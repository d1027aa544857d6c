package whot

import (
	"errors"
	"fmt"
)

// ErrKind classifies a rejected command. Every kind is terminal for the
// single request that raised it; nothing is mutated before the checks pass.
type ErrKind int

const (
	// KindValidation marks malformed or self-contradictory input.
	KindValidation ErrKind = iota
	// KindNotFound marks an unknown room or player.
	KindNotFound
	// KindTurn marks an action from a player whose turn it is not.
	KindTurn
	// KindIllegalMove marks a play failing the matching, chain or defense rules.
	KindIllegalMove
	// KindLockedRules marks a rules change attempted after the lock.
	KindLockedRules
)

func (k ErrKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTurn:
		return "turn"
	case KindIllegalMove:
		return "illegal_move"
	case KindLockedRules:
		return "locked_rules"
	}
	return "unknown"
}

// GameError is the engine's error type. Use errors.As plus Kind, or the
// Is* helpers, to branch on the taxonomy.
type GameError struct {
	Kind ErrKind
	msg  string
}

func (e *GameError) Error() string { return e.msg }

// Errorf builds a classified error. Exported for the service layer, which
// shares the taxonomy for room-level rejections.
func Errorf(kind ErrKind, format string, args ...any) *GameError {
	return &GameError{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) *GameError {
	return Errorf(KindValidation, format, args...)
}

func notFoundf(format string, args ...any) *GameError {
	return Errorf(KindNotFound, format, args...)
}

func turnf(format string, args ...any) *GameError {
	return Errorf(KindTurn, format, args...)
}

func illegalMovef(format string, args ...any) *GameError {
	return Errorf(KindIllegalMove, format, args...)
}

func lockedRulesf(format string, args ...any) *GameError {
	return Errorf(KindLockedRules, format, args...)
}

func isKind(err error, kind ErrKind) bool {
	var ge *GameError
	return errors.As(err, &ge) && ge.Kind == kind
}

// IsValidation reports whether err is a malformed-input rejection.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound reports whether err is an unknown room or player rejection.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsTurnError reports whether err is a not-your-turn rejection.
func IsTurnError(err error) bool { return isKind(err, KindTurn) }

// IsIllegalMove reports whether err is a legality rejection.
func IsIllegalMove(err error) bool { return isKind(err, KindIllegalMove) }

// IsLockedRules reports whether err is a post-lock rules change rejection.
func IsLockedRules(err error) bool { return isKind(err, KindLockedRules) }
