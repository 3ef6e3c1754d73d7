package symbolic

// Diff returns ∂expr/∂name, simplified.
func Diff(expr Expr, name string) Expr {
	return expr.Diff(name).Simplify()
}

// Diff2 returns ∂²expr/∂vi∂vj, differentiating by vi first.
func Diff2(expr Expr, vi, vj string) Expr {
	return Diff(Diff(expr, vi), vj)
}

// Gradient returns the first partials of expr in the order of names.
func Gradient(expr Expr, names []string) []Expr {
	grad := make([]Expr, len(names))
	for i, name := range names {
		grad[i] = Diff(expr, name)
	}
	return grad
}

// Hessian returns the symmetric matrix of second partials. Each first
// partial is computed once and the lower triangle mirrors the upper one.
func Hessian(expr Expr, names []string) *Matrix {
	h := NewMatrix(len(names), len(names))
	for i, d := range Gradient(expr, names) {
		for j := i; j < len(names); j++ {
			e := Diff(d, names[j])
			h.Set(i, j, e)
			h.Set(j, i, e)
		}
	}
	return h
}

// Substitute replaces every bound symbol simultaneously and simplifies.
func Substitute(expr Expr, b Bindings) Expr {
	return expr.Sub(b).Simplify()
}

// Value substitutes b into expr and returns the closed-form number when no
// free symbol is left.
func Value(expr Expr, b Bindings) (*Num, bool) {
	return Substitute(expr, b).Eval()
}

// Square returns expr².
func Square(expr Expr) Expr {
	return PowOf(expr, N(2))
}

// FreeSymbols returns the names of the symbols occurring in e.
func FreeSymbols(e Expr) map[string]struct{} {
	seen := map[string]struct{}{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Sym:
			seen[v.name] = struct{}{}
		case *Add:
			for _, t := range v.terms {
				walk(t)
			}
		case *Mul:
			for _, f := range v.factors {
				walk(f)
			}
		case *Pow:
			walk(v.base)
			walk(v.exp)
		}
	}
	walk(e)
	return seen
}
