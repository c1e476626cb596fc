// Package production models workshop orders and their stage progression.
package production

import (
	"fmt"
	"strings"

	"github.com/bewloop/quark-system/internal/domain/shared"
)

// Status is the workshop stage an order currently occupies
type Status string

const (
	StatusIntake    Status = "intake"
	StatusCut       Status = "cut"
	StatusAssembled Status = "assembled"
	StatusSewn      Status = "sewn"
	StatusQC        Status = "qc"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

// ParseStatus normalizes a client-supplied stage name. Stage names are
// case-insensitive on input, so "QC" and "qc" are the same stage.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// stages is the forward-only production flow
var stages = []Status{StatusIntake, StatusCut, StatusAssembled, StatusSewn, StatusQC, StatusShipped}

// Stages returns the ordered production flow, excluding cancelled
func Stages() []Status {
	out := make([]Status, len(stages))
	copy(out, stages)
	return out
}

// IsValid checks if the status is a known stage or cancelled
func (s Status) IsValid() bool {
	return s == StatusCancelled || s.index() >= 0
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusShipped || s == StatusCancelled
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Next returns the immediate successor, or false if s has none
func (s Status) Next() (Status, bool) {
	i := s.index()
	if i < 0 || i+1 >= len(stages) {
		return "", false
	}
	return stages[i+1], true
}

func (s Status) index() int {
	for i, st := range stages {
		if st == s {
			return i
		}
	}
	return -1
}

// ValidateTransition decides whether an order may move from current to
// requested. Allowed moves are the immediate successor, or cancelled from any
// non-terminal stage.
func ValidateTransition(current, requested Status) error {
	if !requested.IsValid() {
		return invalidTransition(current, requested, "unknown status")
	}
	if !current.IsValid() {
		return invalidTransition(current, requested, "unknown current status")
	}
	if current.IsTerminal() {
		return invalidTransition(current, requested, "order is closed")
	}
	if requested == StatusCancelled {
		return nil
	}
	if next, ok := current.Next(); ok && next == requested {
		return nil
	}
	return invalidTransition(current, requested, "only the next stage is allowed")
}

// TransitionError is returned for a rejected transition and carries both states
type TransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %q to %q: %s", e.From, e.To, e.Reason)
}

// Unwrap lets callers match the shared InvalidTransition code
func (e *TransitionError) Unwrap() error {
	return shared.ErrInvalidTransition.WithMessage("%s", e.Error())
}

func invalidTransition(from, to Status, reason string) error {
	return &TransitionError{From: from, To: to, Reason: reason}
}
