// Package penalty approximates equality-constrained nonlinear programs in
// three variables with the quadratic penalty method, solving every
// unconstrained subproblem exactly.
//
// For an objective f, a constraint g = 0 and a tolerance τ, round k solves
// ∇(f + u·g²) = 0 in closed form with u = 10^(k-2), i.e. 0.1, 1, 10, …, and
// stops as soon as u·g(p)² ≤ τ at the selected critical point p. The sign
// pattern of the Hessian eigenvalues of f, computed once, classifies the
// result as a minimum, maximum or saddle.
//
// Usage:
//
//	p, err := penalty.NewProblem("x**2 + y**2 + z**2", "x + y + z - 3", "0.01")
//	if err != nil { ... }
//	res, err := p.Solve(ctx)
//	fmt.Print(res.Report())
package penalty

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/njchilds90/penalty/symbolic"
)

// Status is the terminal state of a solve.
type Status int

const (
	// NotTerminated: no round has met a stopping rule yet.
	NotTerminated Status = iota
	// Converged: u·g² ≤ τ at the selected critical point.
	Converged
	// RoundLimit: the maximum number of rounds was used up.
	RoundLimit
	// SaddleStop: stopped after one round because the objective has mixed
	// curvature (WithStopOnSaddle).
	SaddleStop
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case RoundLimit:
		return "round-limit"
	case SaddleStop:
		return "saddle-stop"
	}
	return "not-terminated"
}

// Err returns ErrNotConverged for RoundLimit and nil otherwise.
func (s Status) Err() error {
	if s == RoundLimit {
		return ErrNotConverged
	}
	return nil
}

// Classification is derived from the Hessian eigenvalue signs of the
// unpenalized objective.
type Classification int

const (
	Unknown Classification = iota
	Minimum
	Maximum
	Saddle
)

func (c Classification) String() string {
	switch c {
	case Minimum:
		return "minimum"
	case Maximum:
		return "maximum"
	case Saddle:
		return "saddle"
	}
	return "unknown"
}

// Message is the console wording of the classification.
func (c Classification) Message() string {
	switch c {
	case Minimum:
		return "Point is a minimum"
	case Maximum:
		return "Point is a maximum"
	case Saddle:
		return "Function has a saddle point. Penalty method not effective."
	}
	return "Point is unknown"
}

func classify(c Curvature) Classification {
	switch {
	case c.Min && c.Max:
		return Saddle
	case c.Min:
		return Minimum
	case c.Max:
		return Maximum
	}
	return Unknown
}

// InitialWeight is the first penalty weight, exactly 1/10.
func InitialWeight() *big.Rat { return big.NewRat(1, 10) }

// WeightGrowth multiplies the weight between rounds.
const WeightGrowth = 10

// state is the loop state of one round. Each round gets a new value.
type state struct {
	round  int
	weight *big.Rat
}

func (s state) next() state {
	return state{
		round:  s.round + 1,
		weight: new(big.Rat).Mul(s.weight, big.NewRat(WeightGrowth, 1)),
	}
}

// Round is the outcome of one penalty subproblem.
type Round struct {
	Index      int           // 1-based
	Weight     *big.Rat      // u
	Augmented  symbolic.Expr // f + u·g²
	Candidates int           // number of critical points found
	Point      Point         // selected critical point
	Objective  symbolic.Expr // f(p); a number unless p is parametric
	Violation  *big.Rat      // g(p)²
	Weighted   *big.Rat      // u·g(p)²
	Tolerance  *big.Rat      // τ
	Converged  bool          // Weighted ≤ τ
}

// Result is the outcome of Solve. Final is the last round performed.
type Result struct {
	Status         Status
	Classification Classification
	Curvature      Curvature
	Tolerance      *big.Rat
	MaxRounds      int
	Final          Round
	Rounds         []Round
}

// Problem is one constrained program. It is immutable after NewProblem and
// safe for concurrent Solve calls.
type Problem struct {
	symbols    SymbolSet
	objective  symbolic.Expr
	constraint symbolic.Expr
	violation  symbolic.Expr // g²
	tolerance  *big.Rat
	curvature  Curvature
	class      Classification
	opts       options
}

// NewProblem parses the objective, the constraint (g in g = 0) and the
// tolerance, and classifies the objective's curvature.
func NewProblem(objective, constraint, tolerance string, opts ...Option) (*Problem, error) {
	o := gatherOptions(opts...)
	if _, err := NewSymbolSet(o.symbols[0], o.symbols[1], o.symbols[2]); err != nil {
		return nil, err
	}
	names := o.symbols.Names()

	f, err := symbolic.Parse(objective, names)
	if err != nil {
		return nil, fmt.Errorf("%w: objective: %w", ErrParse, err)
	}
	g, err := symbolic.Parse(constraint, names)
	if err != nil {
		return nil, fmt.Errorf("%w: constraint: %w", ErrParse, err)
	}
	tol, err := ParseTolerance(tolerance)
	if err != nil {
		return nil, err
	}
	curv, err := AnalyzeHessian(f, o.symbols)
	if err != nil {
		return nil, err
	}
	return &Problem{
		symbols:    o.symbols,
		objective:  f,
		constraint: g,
		violation:  symbolic.Square(g),
		tolerance:  tol,
		curvature:  curv,
		class:      classify(curv),
		opts:       o,
	}, nil
}

// ParseTolerance reads a finite, non-negative rational such as "0.01",
// "1e-3" or "1/100". Decimal input is kept exact.
func ParseTolerance(text string) (*big.Rat, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrTolerance)
	}
	tol, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", ErrTolerance, text)
	}
	if tol.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is negative", ErrTolerance, text)
	}
	return tol, nil
}

func (p *Problem) Symbols() SymbolSet { return p.symbols }
func (p *Problem) Objective() symbolic.Expr { return p.objective }
func (p *Problem) Constraint() symbolic.Expr { return p.constraint }
func (p *Problem) Tolerance() *big.Rat { return new(big.Rat).Set(p.tolerance) }
func (p *Problem) Curvature() Curvature { return p.curvature }
func (p *Problem) Classification() Classification { return p.class }
func (p *Problem) MaxRounds() int { return p.opts.maxRounds }

// Solve runs the escalation loop. On RoundLimit it returns the populated
// Result together with an error wrapping ErrNotConverged. A round whose
// subproblem has no closed-form solution fails with a *RoundError wrapping
// ErrSolve. ctx is checked between rounds.
func (p *Problem) Solve(ctx context.Context) (*Result, error) {
	log := p.opts.logger.With(slog.String("component", "penalty"))
	res := &Result{
		Classification: p.class,
		Curvature:      p.curvature,
		Tolerance:      p.Tolerance(),
		MaxRounds:      p.opts.maxRounds,
	}

	obs := p.opts.observer
	st := state{round: 1, weight: InitialWeight()}
	for res.Status == NotTerminated {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := p.solveRound(st)
		if err != nil {
			return nil, &RoundError{Round: st.round, Weight: st.weight, Err: err}
		}
		res.Rounds = append(res.Rounds, r)
		res.Final = r
		log.Debug("round solved",
			slog.Int("round", r.Index),
			slog.String("u", formatWeight(r.Weight)),
			slog.String("point", r.Point.String()),
			slog.String("weighted_violation", formatDecimal(r.Weighted)),
			slog.Int("candidates", r.Candidates))

		switch {
		case r.Converged:
			res.Status = Converged
		case p.opts.stopOnSaddle && p.curvature.Saddle():
			res.Status = SaddleStop
		case st.round >= p.opts.maxRounds:
			res.Status = RoundLimit
		default:
			if obs != nil {
				obs.ObserveRound(r)
			}
			st = st.next()
		}
	}
	if obs != nil {
		obs.ObserveResult(res)
	}

	if res.Status == RoundLimit {
		return res, fmt.Errorf("%w: %d rounds, u=%s, %s > %s", ErrNotConverged,
			len(res.Rounds), formatWeight(res.Final.Weight),
			formatDecimal(res.Final.Weighted), formatDecimal(res.Tolerance))
	}
	return res, nil
}

func (p *Problem) solveRound(st state) (Round, error) {
	aug := symbolic.AddOf(p.objective, symbolic.MulOf(symbolic.NRat(st.weight), p.violation))
	cands, err := CriticalPoints(aug, p.symbols)
	if err != nil {
		return Round{}, err
	}
	best := p.selectCandidate(aug, cands)

	b := best.Bindings()
	viol, ok := symbolic.Value(p.violation, b)
	if !ok {
		return Round{}, fmt.Errorf("%w: constraint violation at %s has no closed form", ErrSolve, best)
	}
	weighted := new(big.Rat).Mul(st.weight, viol.Rat())
	return Round{
		Index:      st.round,
		Weight:     st.weight,
		Augmented:  aug,
		Candidates: len(cands),
		Point:      best,
		Objective:  symbolic.Canonical(symbolic.Substitute(p.objective, b), p.symbols.Names()),
		Violation:  viol.Rat(),
		Weighted:   weighted,
		Tolerance:  p.tolerance,
		Converged:  weighted.Cmp(p.tolerance) <= 0,
	}, nil
}

// selectCandidate picks among several critical points: the smallest
// augmented value for a minimum, the largest for a maximum, otherwise the
// first. Ties, and candidates without a numeric value, keep canonical order.
func (p *Problem) selectCandidate(aug symbolic.Expr, cands []Point) Point {
	if len(cands) == 1 || (p.class != Minimum && p.class != Maximum) {
		return cands[0]
	}
	best, bestVal := 0, (*big.Rat)(nil)
	for i, c := range cands {
		v, ok := symbolic.Value(aug, c.Bindings())
		if !ok {
			return cands[0]
		}
		r := v.Rat()
		better := bestVal == nil ||
			(p.class == Minimum && r.Cmp(bestVal) < 0) ||
			(p.class == Maximum && r.Cmp(bestVal) > 0)
		if better {
			best, bestVal = i, r
		}
	}
	return cands[best]
}
