package generation

import (
	"errors"
	"fmt"
)

// Kind classifies why a generation did not commit.
type Kind string

const (
	KindMissingCredentials Kind = "missing_credentials"
	KindInsufficientTokens Kind = "insufficient_tokens"
	KindAssistantRunFailed Kind = "assistant_run_failed"
	KindAssistantTimeout   Kind = "assistant_timeout"
	KindEmptyReply         Kind = "empty_reply"
	KindPersistenceFailure Kind = "persistence_failure"
	KindLedgerDebitFailure Kind = "ledger_debit_failure"
	KindRobotNotFound      Kind = "robot_not_found"
	KindInvalidRequest     Kind = "invalid_request"
	KindCanceled           Kind = "canceled"
	KindUnavailable        Kind = "unavailable"
	KindInterrupted        Kind = "interrupted"
)

var (
	ErrRobotNotFound      = errors.New("robot not found")
	ErrInsufficientTokens = errors.New("insufficient tokens")
	ErrNoSourceCode       = errors.New("robot has no code to fix")
	ErrEmptyRequest       = errors.New("request text is empty")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrNameExhausted      = errors.New("could not persist under a free version name")
	ErrInterrupted        = errors.New("generation was interrupted after the assistant was called")
)

// Retryable reports whether running the same input again may succeed
// without anything else changing. Only transient store reads qualify; an
// assistant call is never repeated on the user's behalf.
func (k Kind) Retryable() bool {
	return k == KindUnavailable
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Retryable() bool {
	return e.Kind.Retryable()
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind carried by err, or "" when err is nil or not a
// generation error.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return ""
}
