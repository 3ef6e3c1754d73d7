package penalty

import (
	"errors"
	"fmt"
	"math/big"
)

// Sentinel errors. Callers match them with errors.Is; the concrete error
// usually carries more context (which input, which round).
var (
	// ErrParse indicates the objective or constraint text is not a valid
	// expression over the symbol set. It also matches symbolic.ErrParse.
	ErrParse = errors.New("penalty: invalid expression")

	// ErrTolerance indicates the tolerance text is not a finite,
	// non-negative real number.
	ErrTolerance = errors.New("penalty: invalid tolerance")

	// ErrSolve indicates a subproblem's critical points could not be found
	// in closed form, or none exist.
	ErrSolve = errors.New("penalty: no closed-form critical point")

	// ErrNotConverged indicates the round limit was reached before the
	// weighted violation dropped to the tolerance.
	ErrNotConverged = errors.New("penalty: did not converge")

	// ErrRequest indicates a SolveRequest field outside its allowed range.
	ErrRequest = errors.New("penalty: invalid request")

	// ErrSymbols indicates an invalid symbol set.
	ErrSymbols = errors.New("penalty: invalid symbol set")
)

// RoundError attaches the failing round and its penalty weight to an error.
type RoundError struct {
	Round  int
	Weight *big.Rat
	Err    error
}

func (e *RoundError) Error() string {
	return fmt.Sprintf("penalty: round %d (u=%s): %v", e.Round, formatWeight(e.Weight), e.Err)
}

func (e *RoundError) Unwrap() error { return e.Err }
