package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// ============================================================
// Solvers
// ============================================================

// maxSnapDenominator bounds the denominators tried when recovering an exact
// rational root from a float approximation.
const maxSnapDenominator = 1024

// RealRoots returns the distinct real roots, ascending, of the univariate
// polynomial c[0] + c[1]·t + … + c[d]·tᵈ. Rational roots are exact.
// Irrational roots are the exact rational value of a float64 approximation
// that has been checked against c; IsRoot tells the two apart.
func RealRoots(c []*big.Rat) ([]*big.Rat, error) {
	deg := len(c) - 1
	for deg >= 0 && c[deg].Sign() == 0 {
		deg--
	}
	switch {
	case deg < 0:
		return nil, fmt.Errorf("%w: identity 0 = 0", ErrDegree)
	case deg == 0:
		return nil, fmt.Errorf("%w: %s = 0", ErrNoRealRoot, c[0].RatString())
	}
	c = c[:deg+1]

	var roots []*big.Rat
	// Factor out t^k so the remaining polynomial has a non-zero constant.
	k := 0
	for c[k].Sign() == 0 {
		k++
	}
	if k > 0 {
		roots = append(roots, new(big.Rat))
		c = c[k:]
	}

	var rest []*big.Rat
	var err error
	switch len(c) - 1 {
	case 0:
	case 1:
		rest = []*big.Rat{SolveLinear(c[1], c[0])}
	case 2:
		rest, err = SolveQuadratic(c[2], c[1], c[0])
	case 3:
		rest, err = SolveCubic(c[3], c[2], c[1], c[0])
	default:
		return nil, fmt.Errorf("%w: degree %d", ErrDegree, len(c)-1)
	}
	if err != nil && len(roots) == 0 {
		return nil, err
	}
	roots = append(roots, rest...)
	return uniqueSorted(roots), nil
}

func uniqueSorted(rs []*big.Rat) []*big.Rat {
	sort.Slice(rs, func(i, j int) bool { return rs[i].Cmp(rs[j]) < 0 })
	out := rs[:0]
	for i, r := range rs {
		if i > 0 && r.Cmp(out[len(out)-1]) == 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SolveLinear solves a·t + b = 0; a must be non-zero.
func SolveLinear(a, b *big.Rat) *big.Rat {
	r := new(big.Rat).Quo(b, a)
	return r.Neg(r)
}

// SolveQuadratic returns the real roots of a·t² + b·t + c = 0, a ≠ 0.
func SolveQuadratic(a, b, c *big.Rat) ([]*big.Rat, error) {
	// disc = b² - 4ac
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	if disc.Sign() < 0 {
		af, _ := a.Float64()
		bf, _ := b.Float64()
		df, _ := disc.Float64()
		return nil, fmt.Errorf("%w: complex roots %g ± %gi", ErrNoRealRoot, -bf/(2*af), math.Sqrt(-df)/(2*af))
	}
	twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
	negB := new(big.Rat).Neg(b)
	if sq, ok := ratSqrt(disc); ok {
		x1 := new(big.Rat).Add(negB, sq)
		x2 := new(big.Rat).Sub(negB, sq)
		return uniqueSorted([]*big.Rat{x1.Quo(x1, twoA), x2.Quo(x2, twoA)}), nil
	}
	af, _ := a.Float64()
	bf, _ := b.Float64()
	cf, _ := c.Float64()
	df, _ := disc.Float64()
	// h = -(b + sign(b)·√disc)/2 avoids cancellation; the roots are h/a and c/h.
	h := -(bf + math.Copysign(math.Sqrt(df), bf)) / 2
	approx := []float64{h / af, cf / h}
	if bf == 0 {
		// Keep ±v bit-for-bit symmetric.
		v := math.Sqrt(-cf / af)
		approx = []float64{-v, v}
	}
	poly := []float64{cf, bf, af}
	var out []*big.Rat
	for _, v := range approx {
		if v, ok := polishRoot(poly, v); ok {
			out = append(out, new(big.Rat).SetFloat64(v))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s·t² + %s·t + %s", ErrPrecision, a.RatString(), b.RatString(), c.RatString())
	}
	return uniqueSorted(out), nil
}

// ratSqrt returns the exact square root of a non-negative rational when
// both numerator and denominator are perfect squares.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	num, den := r.Num(), r.Denom()
	sn, sd := new(big.Int).Sqrt(num), new(big.Int).Sqrt(den)
	if new(big.Int).Mul(sn, sn).Cmp(num) != 0 || new(big.Int).Mul(sd, sd).Cmp(den) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(sn, sd), true
}

// SolveCubic returns the real roots of a·t³ + b·t² + c·t + d = 0, a ≠ 0.
// A rational root is searched first so the remaining quadratic can be
// solved exactly; otherwise the trigonometric/Cardano roots are polished by
// Newton's method and kept only when the polynomial vanishes there to
// within rounding.
func SolveCubic(a, b, c, d *big.Rat) ([]*big.Rat, error) {
	coeffs := []*big.Rat{d, c, b, a}
	approx := cubicFloatRoots(a, b, c, d)
	for _, v := range approx {
		r, ok := SnapRoot(coeffs, v)
		if !ok {
			continue
		}
		// Deflate: (a t³ + b t² + c t + d) / (t - r) = a t² + q1 t + q0.
		q1 := new(big.Rat).Add(b, new(big.Rat).Mul(a, r))
		q0 := new(big.Rat).Add(c, new(big.Rat).Mul(q1, r))
		rest, err := SolveQuadratic(a, q1, q0)
		if err != nil {
			rest = nil
		}
		return uniqueSorted(append(rest, r)), nil
	}
	poly := ratsToFloats(coeffs)
	var out []*big.Rat
	for _, v := range approx {
		if v, ok := polishRoot(poly, v); ok {
			out = append(out, new(big.Rat).SetFloat64(v))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: cubic %s·t³ + %s·t² + %s·t + %s", ErrPrecision,
			a.RatString(), b.RatString(), c.RatString(), d.RatString())
	}
	return uniqueSorted(out), nil
}

func cubicFloatRoots(a, b, c, d *big.Rat) []float64 {
	af, _ := a.Float64()
	bf, _ := b.Float64()
	cf, _ := c.Float64()
	df, _ := d.Float64()
	p := (3*af*cf - bf*bf) / (3 * af * af)
	q := (2*bf*bf*bf - 9*af*bf*cf + 27*af*af*df) / (27 * af * af * af)
	offset := bf / (3 * af)
	disc := -(4*p*p*p + 27*q*q)

	switch {
	case disc > 0:
		m := 2 * math.Sqrt(-p/3)
		theta := math.Acos(3*q/(p*m)) / 3
		roots := make([]float64, 3)
		for k := range roots {
			roots[k] = m*math.Cos(theta-2*math.Pi*float64(k)/3) - offset
		}
		return roots
	case disc == 0:
		if q == 0 {
			return []float64{-offset}
		}
		return []float64{3*q/p - offset, -3*q/(2*p) - offset}
	}
	// The square root takes the sign of q so -q/2 and -√… never cancel;
	// p = 0 leaves A = ∛(-q).
	A := math.Cbrt(-q/2 - math.Copysign(math.Sqrt(q*q/4+p*p*p/27), q))
	B := float64(0)
	if A != 0 {
		B = -p / (3 * A)
	}
	return []float64{A + B - offset}
}

// rootTolerance bounds |P(v)| relative to Σ|cᵢ|·|v|ⁱ for an accepted float
// root.
const rootTolerance = 1e-9

// polishRoot refines v by Newton steps on the polynomial c (ascending
// order) while they reduce |P(v)|, and reports whether P(v) is zero to
// within rounding.
func polishRoot(c []float64, v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, false
	}
	p, dp := horner(c, v)
	for i := 0; i < 16 && p != 0 && dp != 0; i++ {
		next := v - p/dp
		np, ndp := horner(c, next)
		if math.IsNaN(next) || math.Abs(np) >= math.Abs(p) {
			break
		}
		v, p, dp = next, np, ndp
	}
	scale, pow := 0.0, 1.0
	for _, ci := range c {
		scale += math.Abs(ci) * pow
		pow *= math.Abs(v)
	}
	return v, math.Abs(p) <= rootTolerance*scale
}

// horner evaluates the polynomial c and its derivative at v.
func horner(c []float64, v float64) (p, dp float64) {
	for i := len(c) - 1; i >= 0; i-- {
		dp = dp*v + p
		p = p*v + c[i]
	}
	return p, dp
}

func ratsToFloats(c []*big.Rat) []float64 {
	out := make([]float64, len(c))
	for i, r := range c {
		out[i], _ = r.Float64()
	}
	return out
}

// IsRoot reports whether r is an exact root of the polynomial with
// coefficients c (ascending order).
func IsRoot(c []*big.Rat, r *big.Rat) bool {
	return evalUnivariate(c, r).Sign() == 0
}

// SnapRoot looks for a rational p/q with a small denominator near v that is
// an exact root of the polynomial with coefficients c (ascending order).
func SnapRoot(c []*big.Rat, v float64) (*big.Rat, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	for q := int64(1); q <= maxSnapDenominator; q++ {
		pf := math.Round(v * float64(q))
		if math.Abs(pf) > 1<<53 {
			return nil, false
		}
		r := big.NewRat(int64(pf), q)
		if evalUnivariate(c, r).Sign() == 0 {
			return r, true
		}
	}
	return nil, false
}

func evalUnivariate(c []*big.Rat, t *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(c) - 1; i >= 0; i-- {
		acc.Mul(acc, t)
		acc.Add(acc, c[i])
	}
	return acc
}

// AffineSolution describes the solution set of a linear system: variable i
// equals Const[i] + Σ Coef[i][j]·x_j over the free variables j.
type AffineSolution struct {
	Const []*big.Rat
	Coef  [][]*big.Rat
	Free  []bool
}

// Unique reports whether the system has exactly one solution.
func (s *AffineSolution) Unique() bool {
	for _, f := range s.Free {
		if f {
			return false
		}
	}
	return true
}

// Expr renders variable i of the solution over vars.
func (s *AffineSolution) Expr(i int, vars []string) Expr {
	if s.Free[i] {
		return S(vars[i])
	}
	terms := []Expr{NRat(s.Const[i])}
	for j, c := range s.Coef[i] {
		if s.Free[j] && c.Sign() != 0 {
			terms = append(terms, MulOf(NRat(c), S(vars[j])))
		}
	}
	return Canonical(AddOf(terms...), vars)
}

// SolveLinearSystem solves A·x = b exactly by Gauss-Jordan elimination.
// Singular consistent systems yield a parametric solution; inconsistent
// ones fail with ErrInconsistent.
func SolveLinearSystem(a [][]*big.Rat, b []*big.Rat) (*AffineSolution, error) {
	rows := len(a)
	if rows != len(b) {
		panic("symbolic: SolveLinearSystem needs len(a) == len(b)")
	}
	cols := 0
	if rows > 0 {
		cols = len(a[0])
	}
	aug := make([][]*big.Rat, rows)
	for i := range a {
		aug[i] = make([]*big.Rat, cols+1)
		for j := 0; j < cols; j++ {
			aug[i][j] = new(big.Rat).Set(a[i][j])
		}
		aug[i][cols] = new(big.Rat).Set(b[i])
	}

	pivotRow := make([]int, cols)
	for j := range pivotRow {
		pivotRow[j] = -1
	}
	row := 0
	for col := 0; col < cols && row < rows; col++ {
		sel := -1
		for r := row; r < rows; r++ {
			if aug[r][col].Sign() != 0 {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		aug[row], aug[sel] = aug[sel], aug[row]
		inv := new(big.Rat).Inv(aug[row][col])
		for j := col; j <= cols; j++ {
			aug[row][j].Mul(aug[row][j], inv)
		}
		for r := 0; r < rows; r++ {
			if r == row || aug[r][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(aug[r][col])
			for j := col; j <= cols; j++ {
				aug[r][j].Sub(aug[r][j], new(big.Rat).Mul(f, aug[row][j]))
			}
		}
		pivotRow[col] = row
		row++
	}
	for r := row; r < rows; r++ {
		if aug[r][cols].Sign() != 0 {
			return nil, fmt.Errorf("%w: 0 = %s", ErrInconsistent, aug[r][cols].RatString())
		}
	}

	sol := &AffineSolution{
		Const: make([]*big.Rat, cols),
		Coef:  make([][]*big.Rat, cols),
		Free:  make([]bool, cols),
	}
	for i := 0; i < cols; i++ {
		sol.Coef[i] = make([]*big.Rat, cols)
		for j := range sol.Coef[i] {
			sol.Coef[i][j] = new(big.Rat)
		}
		r := pivotRow[i]
		if r < 0 {
			sol.Free[i] = true
			sol.Const[i] = new(big.Rat)
			sol.Coef[i][i].SetInt64(1)
			continue
		}
		sol.Const[i] = new(big.Rat).Set(aug[r][cols])
		for j := 0; j < cols; j++ {
			if j != i && pivotRow[j] < 0 {
				sol.Coef[i][j].Neg(aug[r][j])
			}
		}
	}
	return sol, nil
}
