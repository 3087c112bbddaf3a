package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a league failure so adapters can render it without inspecting messages
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindState
	KindNotFound
	KindIntegrity
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindNotFound:
		return "not_found"
	case KindIntegrity:
		return "integrity"
	case KindStore:
		return "store"
	}
	return "unknown"
}

// Error is the failure returned by every league operation
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Msg == "" {
		return e.Kind.String() + " error"
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare kind sentinel (no message) against any error of that kind, and a named
// sentinel only against itself.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Msg == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

// Kind sentinels
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrState      = &Error{Kind: KindState}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrIntegrity  = &Error{Kind: KindIntegrity}
	ErrStore      = &Error{Kind: KindStore}
)

// Named failures
var (
	ErrTeamNotFound   = &Error{Kind: KindNotFound, Msg: "team not found"}
	ErrMatchNotFound  = &Error{Kind: KindNotFound, Msg: "match not found"}
	ErrNoBracket      = &Error{Kind: KindNotFound, Msg: "playoff bracket has not been generated"}
	ErrInvalidGoals   = &Error{Kind: KindValidation, Msg: "goals must be whole numbers of zero or more"}
	ErrReasonRequired = &Error{Kind: KindValidation, Msg: "postponement reason is required"}
	ErrInvalidPenalty = &Error{Kind: KindValidation, Msg: "penalty winner must be home or away"}

	ErrInvalidTransition   = &Error{Kind: KindState, Msg: "invalid match status transition"}
	ErrNotEnoughTeams      = &Error{Kind: KindState, Msg: "need at least 4 teams to generate a playoff bracket"}
	ErrDrawNeedsPenalty    = &Error{Kind: KindState, Msg: "draw requires penalty result"}
	ErrAlreadyResolved     = &Error{Kind: KindState, Msg: "playoff match already has a result"}
	ErrFinalNotReady       = &Error{Kind: KindState, Msg: "final is not ready: both semifinals must be resolved first"}
	ErrThirdPlaceNotReady  = &Error{Kind: KindState, Msg: "third-place match is not ready: both semifinals must be resolved first"}
	ErrTournamentCompleted = &Error{Kind: KindState, Msg: "tournament is completed and can no longer change"}
	ErrBracketInProgress   = &Error{Kind: KindState, Msg: "playoff bracket already has results"}
	ErrNotEligible         = &Error{Kind: KindState, Msg: "group stage is not far enough along to start the playoffs"}
)

// Validationf builds a validation failure with a specific message
func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Wrapf adds detail to a named failure; the result still matches the sentinel with errors.Is
func Wrapf(sentinel *Error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// StoreError wraps a persistence failure
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{Kind: KindStore, Msg: op, Err: err}
}

// KindOf reports the kind of a league error, or 0 for foreign errors
func KindOf(err error) ErrorKind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
