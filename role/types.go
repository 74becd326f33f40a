package role

import (
	"errors"
	"fmt"
)

// Unassigned is the role sentinel of an agent that holds no role.
const Unassigned = -1

// Sentinel errors for the role state machine.
var (
	// ErrEmptyPool indicates the role pool has no roles.
	ErrEmptyPool = errors.New("role: role pool is empty")

	// ErrInvalidRole indicates a negative role identifier in the pool.
	ErrInvalidRole = errors.New("role: role identifiers must be non-negative")

	// ErrStrategyViolation indicates a proposal strategy answered with a role
	// outside the available candidates.
	ErrStrategyViolation = errors.New("role: strategy proposed an unavailable role")

	// ErrHorizon indicates the horizon table does not cover the agent.
	ErrHorizon = errors.New("role: no confirmation horizon for agent")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("role: invalid option supplied")
)

// Status is the lifecycle state of an agent's role.
type Status int

const (
	// StatusUnassigned: no role held, waiting for a free candidate.
	StatusUnassigned Status = iota
	// StatusProposed: role announced, waiting out the confirmation horizon.
	StatusProposed
	// StatusConfirmed: no conflicting claim arrived within the horizon.
	StatusConfirmed
	// StatusInConflict: lost a tie-break this step; re-proposes next step.
	StatusInConflict
)

// String returns the upper-case state name used in reports.
func (s Status) String() string {
	switch s {
	case StatusUnassigned:
		return "UNASSIGNED"
	case StatusProposed:
		return "PROPOSED"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusInConflict:
		return "IN_CONFLICT"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus maps a state name produced by String back to a Status.
func ParseStatus(name string) (Status, error) {
	for s := StatusUnassigned; s <= StatusInConflict; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown status %q", ErrOptionViolation, name)
}

// Claim is an agent's announced hold on a role, as known to some observer.
type Claim struct {
	Agent      int
	Role       int
	ProposedAt int
	Seq        int
}

// Conflict records one lost tie-break.
type Conflict struct {
	Step   int
	Winner int
	Loser  int
	Role   int
}
