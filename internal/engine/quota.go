package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxSteps is the default maximum number of entity rewrites a
// single propagation pass may perform.
const DefaultMaxSteps = 1000

// Budget bounds one propagation pass. Each entity rewrite takes one
// step; exceeding the limit terminates the pass.
//
// This catches linear explosions (an edit fanning out to an absurd
// number of entities). Cyclic re-triggering is prevented separately by
// the per-entity locks, which cut cascades to one hop. Together they
// guarantee termination.
type Budget struct {
	maxSteps int
	current  int
}

// NewBudget creates a budget with the given step limit.
func NewBudget(maxSteps int) *Budget {
	return &Budget{maxSteps: maxSteps}
}

// Take consumes one step. Returns a StepsExceededError once the limit
// is passed; the caller stops propagating.
func (b *Budget) Take(op string) error {
	b.current++
	if b.current > b.maxSteps {
		return &StepsExceededError{
			Op:    op,
			Steps: b.current,
			Limit: b.maxSteps,
		}
	}
	return nil
}

// Current returns the number of steps taken so far.
func (b *Budget) Current() int {
	return b.current
}

// Limit returns the step limit.
func (b *Budget) Limit() int {
	return b.maxSteps
}

// StepsExceededError is returned when a propagation pass exceeds its
// step budget. The pass terminates; entities already rewritten stay
// rewritten, the rest catch up on their next sync.
type StepsExceededError struct {
	Op    string
	Steps int
	Limit int
}

func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("op %s exceeded propagation budget: %d steps > %d limit",
		e.Op, e.Steps, e.Limit)
}

// IsStepsExceededError reports whether err is a StepsExceededError,
// unwrapping as needed.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
