package symbolic

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Poly — multivariate polynomial normal form
// ============================================================

// maxPolyPow bounds the exponents ToPoly will expand.
const maxPolyPow = 64

// Poly is a polynomial with rational coefficients over an ordered list of
// variables. The zero value is not usable; build one with NewPoly or ToPoly.
// Poly values are never mutated after construction.
type Poly struct {
	vars  []string
	terms map[string]*monomial
}

type monomial struct {
	exps  []int
	coeff *big.Rat
}

func monoKey(exps []int) string {
	parts := make([]string, len(exps))
	for i, e := range exps {
		parts[i] = strconv.Itoa(e)
	}
	return strings.Join(parts, ",")
}

// NewPoly returns the zero polynomial over vars.
func NewPoly(vars []string) *Poly {
	return &Poly{vars: vars, terms: map[string]*monomial{}}
}

// ConstPoly returns the constant polynomial c over vars.
func ConstPoly(vars []string, c *big.Rat) *Poly {
	p := NewPoly(vars)
	p.addTerm(make([]int, len(vars)), c)
	return p
}

// VarPoly returns the polynomial consisting of the i-th variable.
func VarPoly(vars []string, i int) *Poly {
	p := NewPoly(vars)
	exps := make([]int, len(vars))
	exps[i] = 1
	p.addTerm(exps, big.NewRat(1, 1))
	return p
}

// addTerm accumulates c*x^exps in place; only used while building a Poly.
func (p *Poly) addTerm(exps []int, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	key := monoKey(exps)
	if t, ok := p.terms[key]; ok {
		sum := new(big.Rat).Add(t.coeff, c)
		if sum.Sign() == 0 {
			delete(p.terms, key)
			return
		}
		t.coeff = sum
		return
	}
	cp := make([]int, len(exps))
	copy(cp, exps)
	p.terms[key] = &monomial{exps: cp, coeff: new(big.Rat).Set(c)}
}

func (p *Poly) Vars() []string { return p.vars }

func (p *Poly) Add(q *Poly) *Poly {
	out := NewPoly(p.vars)
	for _, t := range p.terms {
		out.addTerm(t.exps, t.coeff)
	}
	for _, t := range q.terms {
		out.addTerm(t.exps, t.coeff)
	}
	return out
}

func (p *Poly) Mul(q *Poly) *Poly {
	out := NewPoly(p.vars)
	exps := make([]int, len(p.vars))
	for _, a := range p.terms {
		for _, b := range q.terms {
			for i := range exps {
				exps[i] = a.exps[i] + b.exps[i]
			}
			out.addTerm(exps, new(big.Rat).Mul(a.coeff, b.coeff))
		}
	}
	return out
}

// Scale returns c*p.
func (p *Poly) Scale(c *big.Rat) *Poly {
	out := NewPoly(p.vars)
	for _, t := range p.terms {
		out.addTerm(t.exps, new(big.Rat).Mul(t.coeff, c))
	}
	return out
}

// Pow returns p**n for n >= 0.
func (p *Poly) Pow(n int) *Poly {
	out := ConstPoly(p.vars, big.NewRat(1, 1))
	base := p
	for n > 0 {
		if n&1 == 1 {
			out = out.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return out
}

// Diff returns the partial derivative with respect to the i-th variable.
func (p *Poly) Diff(i int) *Poly {
	out := NewPoly(p.vars)
	exps := make([]int, len(p.vars))
	for _, t := range p.terms {
		if t.exps[i] == 0 {
			continue
		}
		copy(exps, t.exps)
		exps[i]--
		out.addTerm(exps, new(big.Rat).Mul(t.coeff, big.NewRat(int64(t.exps[i]), 1)))
	}
	return out
}

func (p *Poly) IsZero() bool { return len(p.terms) == 0 }

// Constant returns the value of p when it has no variable terms.
func (p *Poly) Constant() (*big.Rat, bool) {
	switch len(p.terms) {
	case 0:
		return new(big.Rat), true
	case 1:
		for _, t := range p.terms {
			if t.degree() == 0 {
				return new(big.Rat).Set(t.coeff), true
			}
		}
	}
	return nil, false
}

func (t *monomial) degree() int {
	d := 0
	for _, e := range t.exps {
		d += e
	}
	return d
}

// Degree is the total degree; the zero polynomial has degree -1.
func (p *Poly) Degree() int {
	d := -1
	for _, t := range p.terms {
		if td := t.degree(); td > d {
			d = td
		}
	}
	return d
}

// Involved lists, in variable order, the indices of variables that appear
// with a positive exponent.
func (p *Poly) Involved() []int {
	seen := make([]bool, len(p.vars))
	for _, t := range p.terms {
		for i, e := range t.exps {
			if e > 0 {
				seen[i] = true
			}
		}
	}
	var out []int
	for i, s := range seen {
		if s {
			out = append(out, i)
		}
	}
	return out
}

// Affine splits a polynomial of degree at most one into its linear
// coefficients and constant term.
func (p *Poly) Affine() (coeffs []*big.Rat, constant *big.Rat, ok bool) {
	coeffs = make([]*big.Rat, len(p.vars))
	for i := range coeffs {
		coeffs[i] = new(big.Rat)
	}
	constant = new(big.Rat)
	for _, t := range p.terms {
		switch t.degree() {
		case 0:
			constant.Set(t.coeff)
		case 1:
			for i, e := range t.exps {
				if e == 1 {
					coeffs[i].Set(t.coeff)
				}
			}
		default:
			return nil, nil, false
		}
	}
	return coeffs, constant, true
}

// Univariate returns the coefficients c[0..d] of p viewed as a polynomial
// in the i-th variable alone. It fails when another variable appears.
func (p *Poly) Univariate(i int) ([]*big.Rat, bool) {
	deg := 0
	for _, t := range p.terms {
		for j, e := range t.exps {
			if j != i && e != 0 {
				return nil, false
			}
		}
		if t.exps[i] > deg {
			deg = t.exps[i]
		}
	}
	coeffs := make([]*big.Rat, deg+1)
	for k := range coeffs {
		coeffs[k] = new(big.Rat)
	}
	for _, t := range p.terms {
		coeffs[t.exps[i]].Set(t.coeff)
	}
	return coeffs, true
}

// Eval evaluates p at the given point; len(at) must equal len(p.Vars()).
func (p *Poly) Eval(at []*big.Rat) *big.Rat {
	sum := new(big.Rat)
	for _, t := range p.terms {
		v := new(big.Rat).Set(t.coeff)
		for i, e := range t.exps {
			if e > 0 {
				v.Mul(v, RatPow(at[i], int64(e)))
			}
		}
		sum.Add(sum, v)
	}
	return sum
}

// sorted orders monomials by descending total degree, then descending
// exponents in variable order (x^2 before x*y before y^2).
func (p *Poly) sorted() []*monomial {
	out := make([]*monomial, 0, len(p.terms))
	for _, t := range p.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].degree(), out[j].degree()
		if di != dj {
			return di > dj
		}
		for k := range out[i].exps {
			if out[i].exps[k] != out[j].exps[k] {
				return out[i].exps[k] > out[j].exps[k]
			}
		}
		return false
	})
	return out
}

// Expr converts p back into an expression tree in canonical term order.
func (p *Poly) Expr() Expr {
	ms := p.sorted()
	if len(ms) == 0 {
		return N(0)
	}
	terms := make([]Expr, 0, len(ms))
	for _, t := range ms {
		factors := []Expr{NRat(t.coeff)}
		for i, e := range t.exps {
			switch {
			case e == 1:
				factors = append(factors, S(p.vars[i]))
			case e > 1:
				factors = append(factors, &Pow{base: S(p.vars[i]), exp: N(int64(e))})
			}
		}
		terms = append(terms, mulOfOrdered(factors))
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &Add{terms: terms}
}

// mulOfOrdered builds a product whose factors are already simplified and
// ordered, keeping that order.
func mulOfOrdered(factors []Expr) Expr {
	c := factors[0].(*Num)
	rest := factors[1:]
	switch {
	case len(rest) == 0:
		return c
	case c.IsOne() && len(rest) == 1:
		return rest[0]
	case c.IsOne():
		return &Mul{factors: rest}
	}
	return &Mul{factors: factors}
}

func (p *Poly) String() string { return p.Expr().String() }

// ToPoly converts e into polynomial normal form over vars. It fails with
// ErrNotPolynomial for unknown symbols, non-integer or negative powers of
// non-constant bases, and divisions by zero.
func ToPoly(e Expr, vars []string) (*Poly, error) {
	switch v := e.(type) {
	case *Num:
		return ConstPoly(vars, v.val), nil
	case *Sym:
		for i, name := range vars {
			if name == v.name {
				return VarPoly(vars, i), nil
			}
		}
		return nil, fmt.Errorf("%w: unknown symbol %q", ErrNotPolynomial, v.name)
	case *Add:
		out := NewPoly(vars)
		for _, t := range v.terms {
			tp, err := ToPoly(t, vars)
			if err != nil {
				return nil, err
			}
			out = out.Add(tp)
		}
		return out, nil
	case *Mul:
		out := ConstPoly(vars, big.NewRat(1, 1))
		for _, f := range v.factors {
			fp, err := ToPoly(f, vars)
			if err != nil {
				return nil, err
			}
			out = out.Mul(fp)
		}
		return out, nil
	case *Pow:
		return powToPoly(v, vars)
	}
	return nil, fmt.Errorf("%w: unsupported node %T", ErrNotPolynomial, e)
}

func powToPoly(p *Pow, vars []string) (*Poly, error) {
	en, ok := p.exp.Eval()
	if !ok || !en.IsInteger() || !en.val.Num().IsInt64() {
		return nil, fmt.Errorf("%w: exponent %s is not an integer", ErrNotPolynomial, p.exp)
	}
	k := en.val.Num().Int64()
	base, err := ToPoly(p.base, vars)
	if err != nil {
		return nil, err
	}
	if c, isConst := base.Constant(); isConst {
		if c.Sign() == 0 && k < 0 {
			return nil, fmt.Errorf("%w: division by zero in %s", ErrNotPolynomial, p)
		}
		if absInt64(k) > maxExactPow {
			return nil, fmt.Errorf("%w: exponent %d too large", ErrNotPolynomial, k)
		}
		return ConstPoly(vars, RatPow(c, k)), nil
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: negative power of %s", ErrNotPolynomial, p.base)
	}
	if k > maxPolyPow {
		return nil, fmt.Errorf("%w: exponent %d too large", ErrNotPolynomial, k)
	}
	return base.Pow(int(k)), nil
}

// Canonical rewrites e in polynomial normal form when possible and falls
// back to plain simplification otherwise.
func Canonical(e Expr, vars []string) Expr {
	p, err := ToPoly(e, vars)
	if err != nil {
		return e.Simplify()
	}
	return p.Expr()
}
