package symbolic

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("symbolic: parse error")

	// ErrNotPolynomial is returned when an expression has no polynomial
	// normal form over the requested variables.
	ErrNotPolynomial = errors.New("symbolic: not a polynomial")

	// ErrNoRealRoot is returned when a univariate equation has no real root.
	ErrNoRealRoot = errors.New("symbolic: no real root")

	// ErrInconsistent is returned for a linear system with no solution.
	ErrInconsistent = errors.New("symbolic: inconsistent system")

	// ErrDegree is returned when no closed-form solver covers the degree.
	ErrDegree = errors.New("symbolic: degree has no closed-form solver")

	// ErrPrecision is returned when a root approximated in float64 does not
	// zero the polynomial to within rounding.
	ErrPrecision = errors.New("symbolic: root not found to float64 precision")
)

// ParseError reports where and why the input text was rejected.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("symbolic: parse %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }
