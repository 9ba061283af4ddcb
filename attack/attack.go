// Package attack recovers plaintext from, or forges ciphertext for, the
// oracles in package oracle without access to their keys.
package attack

import (
	"errors"
	"fmt"
)

var (
	ErrNotECB               = errors.New("attack: oracle does not behave like ECB")
	ErrQueryBudgetExceeded  = errors.New("attack: query budget exceeded")
	ErrInconsistentRecovery = errors.New("attack: inconsistent recovery")
)

// PositionError records where in the target an attack gave up.
type PositionError struct {
	Block int
	Byte  int
	Err   error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("block %d byte %d: %v", e.Block, e.Byte, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }

// Option configures an attack run.
type Option func(*budget)

// MaxQueries limits the number of oracle queries an attack may issue.
// Zero or less means no limit.
func MaxQueries(n int) Option {
	return func(b *budget) { b.max = n }
}

type budget struct {
	max, used int
}

func newBudget(opts []Option) *budget {
	b := &budget{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *budget) spend() error {
	if b.max > 0 && b.used >= b.max {
		return fmt.Errorf("%w: %d queries", ErrQueryBudgetExceeded, b.max)
	}
	b.used++
	return nil
}
