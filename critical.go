package penalty

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/njchilds90/penalty/symbolic"
)

// Point binds each symbol to a value. A symbol left free by an
// underdetermined system is bound to itself. Approx marks coordinates that
// are float64 roots of an irrational solution rather than exact values.
type Point struct {
	Symbols SymbolSet
	Values  [3]symbolic.Expr
	Approx  [3]bool
}

// approxDigits is the precision of approximate coordinates in output.
const approxDigits = 12

// Exact reports whether every coordinate is exact.
func (p Point) Exact() bool {
	return p.Approx == [3]bool{}
}

// Coord renders coordinate i: exact values as rationals, approximate ones
// as decimals prefixed with ~.
func (p Point) Coord(i int) string {
	n, ok := p.Values[i].(*symbolic.Num)
	if !ok || !p.Approx[i] {
		return p.Values[i].String()
	}
	return "~" + n.Decimal(approxDigits)
}

// Bindings returns the point as a substitution.
func (p Point) Bindings() symbolic.Bindings {
	b := make(symbolic.Bindings, len(p.Symbols))
	for i, name := range p.Symbols {
		b[name] = p.Values[i]
	}
	return b
}

// Parametric reports whether some coordinate is not a number.
func (p Point) Parametric() bool {
	for _, v := range p.Values {
		if _, ok := v.(*symbolic.Num); !ok {
			return true
		}
	}
	return false
}

// Floats returns the coordinates as float64 when the point is numeric.
func (p Point) Floats() ([3]float64, bool) {
	var out [3]float64
	for i, v := range p.Values {
		n, ok := v.(*symbolic.Num)
		if !ok {
			return out, false
		}
		out[i] = n.Float64()
	}
	return out, true
}

// String renders {x: 300/301, y: 300/301, z: 300/301}.
func (p Point) String() string {
	parts := make([]string, len(p.Symbols))
	for i, name := range p.Symbols {
		parts[i] = name + ": " + p.Coord(i)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CriticalPoints solves ∇expr = 0 exactly and returns the real solutions in
// lexicographic order of their coordinates.
//
// Two system shapes have closed forms here: all-affine gradients (exact
// Gauss-Jordan elimination, parametric when singular) and decoupled ones
// where each component is a univariate polynomial of degree at most three
// in its own symbol. Anything else fails with ErrSolve.
func CriticalPoints(expr symbolic.Expr, symbols SymbolSet) ([]Point, error) {
	names := symbols.Names()
	grad := symbolic.Gradient(expr, names)
	polys := make([]*symbolic.Poly, len(grad))
	for i, g := range grad {
		p, err := symbolic.ToPoly(g, names)
		if err != nil {
			return nil, fmt.Errorf("%w: ∂/∂%s = %s: %w", ErrSolve, names[i], g, err)
		}
		polys[i] = p
	}

	if pts, ok, err := affineCriticalPoints(polys, symbols); ok {
		return pts, err
	}
	return decoupledCriticalPoints(polys, symbols)
}

func affineCriticalPoints(polys []*symbolic.Poly, symbols SymbolSet) ([]Point, bool, error) {
	a := make([][]*big.Rat, len(polys))
	b := make([]*big.Rat, len(polys))
	for i, p := range polys {
		coeffs, constant, ok := p.Affine()
		if !ok {
			return nil, false, nil
		}
		a[i] = coeffs
		b[i] = constant.Neg(constant)
	}
	sol, err := symbolic.SolveLinearSystem(a, b)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	pt := Point{Symbols: symbols}
	for i := range pt.Values {
		pt.Values[i] = sol.Expr(i, symbols.Names())
	}
	return []Point{pt}, true, nil
}

func decoupledCriticalPoints(polys []*symbolic.Poly, symbols SymbolSet) ([]Point, error) {
	type root struct {
		value  symbolic.Expr
		approx bool
	}
	roots := make([][]root, len(symbols))
	for i, p := range polys {
		involved := p.Involved()
		switch len(involved) {
		case 0:
			if c, _ := p.Constant(); c.Sign() != 0 {
				return nil, fmt.Errorf("%w: ∂/∂%s = %s is never zero", ErrSolve, symbols[i], c.RatString())
			}
			continue
		case 1:
		default:
			return nil, fmt.Errorf("%w: coupled nonlinear system in %s", ErrSolve, p)
		}
		v := involved[0]
		if roots[v] != nil {
			return nil, fmt.Errorf("%w: %s appears in more than one nonlinear equation", ErrSolve, symbols[v])
		}
		coeffs, _ := p.Univariate(v)
		rs, err := symbolic.RealRoots(coeffs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s = 0: %w", ErrSolve, p, err)
		}
		roots[v] = make([]root, len(rs))
		for k, r := range rs {
			roots[v][k] = root{value: symbolic.NRat(r), approx: !symbolic.IsRoot(coeffs, r)}
		}
	}
	for v := range roots {
		if roots[v] == nil {
			roots[v] = []root{{value: symbolic.S(symbols[v])}}
		}
	}

	// Each root list is ascending, so the product is already lexicographic.
	var pts []Point
	for _, x := range roots[0] {
		for _, y := range roots[1] {
			for _, z := range roots[2] {
				pts = append(pts, Point{
					Symbols: symbols,
					Values:  [3]symbolic.Expr{x.value, y.value, z.value},
					Approx:  [3]bool{x.approx, y.approx, z.approx},
				})
			}
		}
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no real critical point", ErrSolve)
	}
	return pts, nil
}
