package penalty

import (
	"fmt"
	"math"
	"math/big"

	"gonum.org/v1/gonum/mat"

	"github.com/njchilds90/penalty/symbolic"
)

// Sign classifies an eigenvalue.
type Sign int

const (
	SignIndeterminate Sign = iota
	SignNegative
	SignZero
	SignPositive
)

func (s Sign) String() string {
	switch s {
	case SignNegative:
		return "negative"
	case SignZero:
		return "zero"
	case SignPositive:
		return "positive"
	}
	return "indeterminate"
}

// Eigenvalue is one Hessian eigenvalue, repeated per multiplicity.
// Value is NaN when the sign is indeterminate. Exact is set when the
// eigenvalue is rational.
type Eigenvalue struct {
	Value float64
	Exact *big.Rat
	Sign  Sign
}

// Curvature is the Hessian of an objective with its eigenvalue signs.
// Min is set when some eigenvalue is strictly positive, Max when some is
// strictly negative.
type Curvature struct {
	Hessian     *symbolic.Matrix
	Eigenvalues []Eigenvalue
	Min, Max    bool
}

// Saddle reports mixed curvature.
func (c Curvature) Saddle() bool { return c.Min && c.Max }

// AnalyzeHessian builds the Hessian of objective and tags each eigenvalue
// with its sign.
//
// For a constant Hessian the sign counts are exact: the characteristic
// polynomial is built from principal minors in rational arithmetic and,
// being real-rooted, Descartes' rule of signs gives the exact number of
// positive and negative roots. gonum supplies the magnitudes. A Hessian
// that still depends on the symbols yields indeterminate signs.
func AnalyzeHessian(objective symbolic.Expr, symbols SymbolSet) (Curvature, error) {
	h := symbolic.Hessian(objective, symbols.Names())
	c := Curvature{Hessian: h}

	entries, ok := h.Constant()
	if !ok {
		c.Eigenvalues = make([]Eigenvalue, len(symbols))
		for i := range c.Eigenvalues {
			c.Eigenvalues[i] = Eigenvalue{Value: math.NaN(), Sign: SignIndeterminate}
		}
		return c, nil
	}

	charPoly, err := characteristic(h)
	if err != nil {
		return Curvature{}, err
	}
	neg, zero, pos := rootSigns(charPoly)
	if neg+zero+pos != len(symbols) {
		return Curvature{}, fmt.Errorf("penalty: characteristic polynomial of %s is not real-rooted", h)
	}

	vals, err := symEigenvalues(entries)
	if err != nil {
		return Curvature{}, err
	}
	c.Eigenvalues = make([]Eigenvalue, len(vals))
	for i, v := range vals {
		ev := Eigenvalue{Value: v}
		switch {
		case i < neg:
			ev.Sign = SignNegative
		case i < neg+zero:
			ev.Sign, ev.Value, ev.Exact = SignZero, 0, new(big.Rat)
		default:
			ev.Sign = SignPositive
		}
		if ev.Exact == nil {
			if r, ok := symbolic.SnapRoot(charPoly, v); ok {
				ev.Exact = r
				ev.Value, _ = r.Float64()
			}
		}
		c.Eigenvalues[i] = ev
	}
	c.Min = pos > 0
	c.Max = neg > 0
	return c, nil
}

// characteristic returns the coefficients, constant first, of det(tI - H):
// t^n - e1 t^(n-1) + e2 t^(n-2) - ... where ek is the sum of the k×k
// principal minors of H.
func characteristic(h *symbolic.Matrix) ([]*big.Rat, error) {
	n := h.Rows()
	coeffs := make([]*big.Rat, n+1)
	coeffs[n] = big.NewRat(1, 1)
	for k := 1; k <= n; k++ {
		sum := new(big.Rat)
		for _, idx := range combinations(n, k) {
			d, ok := h.PrincipalMinor(idx).Det().Eval()
			if !ok {
				return nil, fmt.Errorf("penalty: minor %v of %s is not constant", idx, h)
			}
			sum.Add(sum, d.Rat())
		}
		if k%2 == 1 {
			sum.Neg(sum)
		}
		coeffs[n-k] = sum
	}
	return coeffs, nil
}

// combinations lists the k-subsets of {0..n-1} in lexicographic order.
func combinations(n, k int) [][]int {
	var out [][]int
	var walk func(start int, cur []int)
	walk = func(start int, cur []int) {
		if len(cur) == k {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := start; i < n; i++ {
			walk(i+1, append(cur, i))
		}
	}
	walk(0, nil)
	return out
}

// rootSigns counts negative, zero and positive roots of a real-rooted
// polynomial (coefficients constant first).
func rootSigns(c []*big.Rat) (neg, zero, pos int) {
	for zero < len(c) && c[zero].Sign() == 0 {
		zero++
	}
	rest := c[zero:]
	pos = signChanges(rest, false)
	neg = signChanges(rest, true)
	return neg, zero, pos
}

// signChanges counts sign alternations in c, skipping zeros. With mirror
// set it counts them for p(-t).
func signChanges(c []*big.Rat, mirror bool) int {
	changes, last := 0, 0
	for i, r := range c {
		s := r.Sign()
		if mirror && i%2 == 1 {
			s = -s
		}
		if s == 0 {
			continue
		}
		if last != 0 && s != last {
			changes++
		}
		last = s
	}
	return changes
}

// symEigenvalues returns the eigenvalues of a symmetric rational matrix in
// ascending order.
func symEigenvalues(entries [][]*big.Rat) ([]float64, error) {
	n := len(entries)
	data := make([]float64, 0, n*n)
	for i := range entries {
		for j := range entries[i] {
			f, _ := entries[i][j].Float64()
			data = append(data, f)
		}
	}
	var es mat.EigenSym
	if ok := es.Factorize(mat.NewSymDense(n, data), false); !ok {
		return nil, fmt.Errorf("penalty: eigen decomposition of the Hessian did not converge")
	}
	return es.Values(nil), nil
}
