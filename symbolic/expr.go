// Package symbolic is the exact expression kernel behind the penalty solver.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat); no silent float rounding
//     for integer powers
//   - Immutable trees: Diff, Sub and Simplify always build new values
//   - Deterministic simplification and stable, parseable String output
//   - A polynomial normal form (Poly) for solving and sign analysis
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(b Bindings) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
}

// Bindings maps symbol names to replacement expressions. Substitution
// through Bindings is simultaneous: replacements are never re-substituted.
type Bindings map[string]Expr

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts f exactly; f must be finite.
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

// NRat copies r.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(Bindings) Expr     { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Sign() int             { return n.val.Sign() }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

// Decimal renders n with up to prec significant digits, for reports.
func (n *Num) Decimal(prec int) string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return FormatRat(n.val, prec)
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numAbs(a *Num) *Num    { return &Num{val: new(big.Rat).Abs(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// maxExactPow bounds integer exponents folded exactly; larger ones stay symbolic.
const maxExactPow = 4096

// numPow raises a to an integer power exactly. a must be non-zero when e < 0.
func numPow(a *Num, e int64) *Num {
	return &Num{val: RatPow(a.val, e)}
}

// RatPow returns r**e for an integer e. r must be non-zero when e < 0.
func RatPow(r *big.Rat, e int64) *big.Rat {
	neg := e < 0
	if neg {
		e = -e
	}
	exp := big.NewInt(e)
	num := new(big.Int).Exp(r.Num(), exp, nil)
	den := new(big.Int).Exp(r.Denom(), exp, nil)
	out := new(big.Rat).SetFrac(num, den)
	if neg {
		out.Inv(out)
	}
	return out
}

// FormatRat renders r as a short decimal with prec significant digits.
func FormatRat(r *big.Rat, prec int) string {
	if r.IsInt() {
		return r.Num().String()
	}
	f, _ := r.Float64()
	return strings.TrimSuffix(fmt.Sprintf("%.*g", prec, f), ".")
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(b Bindings) Expr {
	if v, ok := b[s.name]; ok {
		return v
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, MulOf(N(-1), b)) }

// Simplify flattens nested sums, folds numbers and merges like terms
// (terms equal up to a numeric coefficient).
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	type like struct {
		coeff *Num
		rest  Expr
	}
	numAccum := N(0)
	groups := map[string]*like{}
	keys := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		g, seen := groups[key]
		if !seen {
			g = &like{coeff: N(0), rest: rest}
			groups[key] = g
			keys = append(keys, key)
		}
		g.coeff = numAdd(g.coeff, coeff)
	}
	sort.Strings(keys)

	result := make([]Expr, 0, len(keys)+1)
	for _, key := range keys {
		g := groups[key]
		switch {
		case g.coeff.IsZero():
			continue
		case g.coeff.IsOne():
			result = append(result, g.rest)
		default:
			result = append(result, MulOf(g.coeff, g.rest))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		coeff, rest := extractCoefficient(t)
		if i > 0 && coeff.IsNegative() {
			sb.WriteString(" - ")
			sb.WriteString(scaled(numAbs(coeff), rest).String())
			continue
		}
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		coeff, rest := extractCoefficient(t)
		if i > 0 && coeff.IsNegative() {
			sb.WriteString(" - ")
			sb.WriteString(scaled(numAbs(coeff), rest).LaTeX())
			continue
		}
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(t.LaTeX())
	}
	return sb.String()
}

func (a *Add) Sub(b Bindings) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(b)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) Terms() []Expr { return a.terms }

// extractCoefficient splits e into its leading numeric coefficient and the
// remaining factor. A bare number yields (n, 1).
func extractCoefficient(e Expr) (*Num, Expr) {
	switch v := e.(type) {
	case *Num:
		return v, N(1)
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			rest := v.factors[1:]
			if len(rest) == 1 {
				return c, rest[0]
			}
			return c, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// scaled rebuilds coeff*rest without re-simplifying rest.
func scaled(coeff *Num, rest Expr) Expr {
	if n, ok := rest.(*Num); ok {
		return numMul(coeff, n)
	}
	if coeff.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{coeff}, m.factors...)}
	}
	return &Mul{factors: []Expr{coeff, rest}}
}

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// QuoOf returns a / b.
func QuoOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// Simplify flattens nested products, folds numbers and merges powers of
// equal bases (x*x^2 -> x^3).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	type power struct {
		base Expr
		exps []Expr
	}
	coeff := N(1)
	powers := map[string]*power{}
	keys := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		pw, seen := powers[key]
		if !seen {
			pw = &power{base: base}
			powers[key] = pw
			keys = append(keys, key)
		}
		pw.exps = append(pw.exps, exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(keys))
	for _, key := range keys {
		pw := powers[key]
		f := PowOf(pw.base, AddOf(pw.exps...))
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		others = append(others, f)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	start := 0
	prefix := ""
	if c, ok := m.factors[0].(*Num); ok && c.IsNegOne() && len(m.factors) > 1 {
		prefix, start = "-", 1
	}
	parts := make([]string, 0, len(m.factors)-start)
	for _, f := range m.factors[start:] {
		if _, isAdd := f.(*Add); isAdd {
			parts = append(parts, "("+f.String()+")")
		} else {
			parts = append(parts, f.String())
		}
	}
	// A leading rational coefficient reads correctly without parentheses
	// because * and / associate to the left.
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		_, isAdd := f.(*Add)
		if isAdd {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	return strings.Join(parts, " ")
}

func (m *Mul) Sub(b Bindings) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(b)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(append([]Expr{dfi}, others...)...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	// 0^0 is indeterminate and 0^negative is a division by zero; both stay
	// unevaluated so callers can detect them.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if expIsNum && !en.IsNegative() {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}
	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok && expIsNum && en.IsInteger() {
		e := en.val.Num()
		if e.IsInt64() && absInt64(e.Int64()) <= maxExactPow {
			return numPow(bn, e.Int64())
		}
	}
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	// (a*b)^n = a^n * b^n for integer n.
	if m, ok := base.(*Mul); ok && expIsNum && en.IsInteger() {
		fs := make([]Expr, len(m.factors))
		for i, f := range m.factors {
			fs[i] = PowOf(f, exp)
		}
		return MulOf(fs...)
	}
	return &Pow{base: base, exp: exp}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	expStr := p.exp.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if !b.IsInteger() || b.IsNegative() {
			baseStr = "(" + baseStr + ")"
		}
	}
	if n, ok := p.exp.(*Num); !ok || !n.IsInteger() || n.IsNegative() {
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	baseStr := p.base.LaTeX()
	expStr := p.exp.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + expStr + "}"
}

func (p *Pow) Sub(b Bindings) Expr {
	return PowOf(p.base.Sub(b), p.exp.Sub(b))
}

// Diff applies the power rule. Exponents that depend on varName are not
// representable in this kernel (the parser only admits constant exponents).
func (p *Pow) Diff(varName string) Expr {
	if dv, ok := p.exp.Diff(varName).Eval(); !ok || !dv.IsZero() {
		panic("symbolic: derivative of a variable exponent")
	}
	du := p.base.Diff(varName)
	newExp := AddOf(p.exp, N(-1))
	return MulOf(p.exp, PowOf(p.base, newExp), du)
}

// Eval is exact for integer exponents and falls back to float64 otherwise.
func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if e.IsInteger() && e.val.Num().IsInt64() {
		ei := e.val.Num().Int64()
		if b.IsZero() && ei < 0 {
			return nil, false
		}
		if absInt64(ei) <= maxExactPow {
			return numPow(b, ei), true
		}
	}
	pf := math.Pow(b.Float64(), e.Float64())
	if math.IsNaN(pf) || math.IsInf(pf, 0) {
		return nil, false
	}
	return NFloat(pf), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }
