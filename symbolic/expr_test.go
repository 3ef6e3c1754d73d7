package symbolic_test

import (
	"testing"

	"github.com/njchilds90/penalty/symbolic"
)

var xyz = []string{"x", "y", "z"}

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbolic.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbolic.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	if got := symbolic.F(-2, 5).LaTeX(); got != `-\frac{2}{5}` {
		t.Errorf("want -\\frac{2}{5}, got %s", got)
	}
}

func TestNum_Decimal(t *testing.T) {
	if got := symbolic.F(300, 301).Decimal(6); got != "0.996678" {
		t.Errorf("want 0.996678, got %s", got)
	}
	if got := symbolic.N(-7).Decimal(6); got != "-7" {
		t.Errorf("want -7, got %s", got)
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	if got := symbolic.N(5).Diff("x").String(); got != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", got)
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_Sub_Match(t *testing.T) {
	got := symbolic.S("x").Sub(symbolic.Bindings{"x": symbolic.N(3)})
	if got.String() != "3" {
		t.Errorf("want 3, got %s", got)
	}
}

func TestSym_Sub_NoMatch(t *testing.T) {
	got := symbolic.S("x").Sub(symbolic.Bindings{"y": symbolic.N(3)})
	if got.String() != "x" {
		t.Errorf("want x, got %s", got)
	}
}

func TestSub_Simultaneous(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	expr := symbolic.SubOf(x, symbolic.MulOf(symbolic.N(2), y))
	got := symbolic.Substitute(expr, symbolic.Bindings{"x": y, "y": x})
	if got.String() != "-2*x + y" {
		t.Errorf("want '-2*x + y', got %s", got)
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("x"), symbolic.N(3))
	if expr.String() != "x + 3" {
		t.Errorf("want 'x + 3', got %s", expr)
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	expr := symbolic.AddOf(symbolic.N(1), symbolic.N(-1))
	if expr.String() != "0" {
		t.Errorf("want 0, got %s", expr)
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	x := symbolic.S("x")
	expr := symbolic.AddOf(x, x)
	if expr.String() != "2*x" {
		t.Errorf("want '2*x', got %s", expr)
	}
	cancel := symbolic.AddOf(symbolic.MulOf(symbolic.N(3), x), symbolic.MulOf(symbolic.N(-3), x))
	if cancel.String() != "0" {
		t.Errorf("want 0, got %s", cancel)
	}
}

func TestAdd_NegativeTerm(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	expr := symbolic.SubOf(x, symbolic.MulOf(symbolic.N(2), y))
	if expr.String() != "x - 2*y" {
		t.Errorf("want 'x - 2*y', got %s", expr)
	}
}

func TestAdd_Diff(t *testing.T) {
	// d/dx(x^2 + 3x + 1) = 2x + 3
	x := symbolic.S("x")
	expr := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(1))
	d := symbolic.Diff(expr, "x")
	if d.String() != "2*x + 3" {
		t.Errorf("want '2*x + 3', got %s", d)
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_ZeroCollapse(t *testing.T) {
	expr := symbolic.MulOf(symbolic.N(0), symbolic.S("x"))
	if expr.String() != "0" {
		t.Errorf("want 0, got %s", expr)
	}
}

func TestMul_MergesPowers(t *testing.T) {
	x := symbolic.S("x")
	expr := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(2)))
	if expr.String() != "x^3" {
		t.Errorf("want x^3, got %s", expr)
	}
}

func TestMul_ProductRule(t *testing.T) {
	// d/dx(x*y) = y
	expr := symbolic.MulOf(symbolic.S("x"), symbolic.S("y"))
	if d := symbolic.Diff(expr, "x"); d.String() != "y" {
		t.Errorf("want y, got %s", d)
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_ZeroExp(t *testing.T) {
	if got := symbolic.PowOf(symbolic.S("x"), symbolic.N(0)); got.String() != "1" {
		t.Errorf("want 1, got %s", got)
	}
}

func TestPow_OneExp(t *testing.T) {
	if got := symbolic.PowOf(symbolic.S("x"), symbolic.N(1)); got.String() != "x" {
		t.Errorf("want x, got %s", got)
	}
}

func TestPow_ExactFold(t *testing.T) {
	got := symbolic.PowOf(symbolic.F(1, 10), symbolic.N(3))
	if got.String() != "1/1000" {
		t.Errorf("want 1/1000, got %s", got)
	}
}

func TestPow_Diff_PowerRule(t *testing.T) {
	// d/dx(x^3) = 3*x^2
	d := symbolic.Diff(symbolic.PowOf(symbolic.S("x"), symbolic.N(3)), "x")
	if d.String() != "3*x^2" {
		t.Errorf("want 3*x^2, got %s", d)
	}
}

func TestPow_LaTeX(t *testing.T) {
	expr := symbolic.PowOf(symbolic.S("x"), symbolic.N(2))
	if expr.LaTeX() != "x^{2}" {
		t.Errorf("want x^{2}, got %s", expr.LaTeX())
	}
}

func TestPow_EvalZeroNegative(t *testing.T) {
	expr := symbolic.PowOf(symbolic.N(0), symbolic.N(-1))
	if _, ok := expr.Eval(); ok {
		t.Error("0^-1 must not evaluate")
	}
}

// ============================================================
// Calculus helpers
// ============================================================

func TestDiff2(t *testing.T) {
	expr := symbolic.MustParse("x^2*y + y^3", xyz)
	if got := symbolic.Diff2(expr, "x", "y"); got.String() != "2*x" {
		t.Errorf("want 2*x, got %s", got)
	}
	if got := symbolic.Diff2(expr, "y", "y"); got.String() != "6*y" {
		t.Errorf("want 6*y, got %s", got)
	}
}

func TestGradient(t *testing.T) {
	g := symbolic.Gradient(symbolic.MustParse("x^2 + y^2 + z^2", xyz), xyz)
	want := []string{"2*x", "2*y", "2*z"}
	for i, w := range want {
		if g[i].String() != w {
			t.Errorf("component %d: want %s, got %s", i, w, g[i])
		}
	}
}

func TestSquare(t *testing.T) {
	sq := symbolic.Square(symbolic.MustParse("x - 1", xyz))
	v, ok := symbolic.Value(sq, symbolic.Bindings{"x": symbolic.N(4)})
	if !ok || v.String() != "9" {
		t.Errorf("want 9, got %v", v)
	}
}

func TestValue_Exact(t *testing.T) {
	expr := symbolic.MustParse("x^2 + y", xyz)
	v, ok := symbolic.Value(expr, symbolic.Bindings{"x": symbolic.N(3), "y": symbolic.F(1, 2)})
	if !ok || v.String() != "19/2" {
		t.Errorf("want 19/2, got %v", v)
	}
}

func TestValue_FreeSymbolLeft(t *testing.T) {
	expr := symbolic.MustParse("x + y", xyz)
	if _, ok := symbolic.Value(expr, symbolic.Bindings{"x": symbolic.N(1)}); ok {
		t.Error("expected no closed form with y unbound")
	}
}

func TestFreeSymbols(t *testing.T) {
	syms := symbolic.FreeSymbols(symbolic.MustParse("x*z + 4", xyz))
	if len(syms) != 2 {
		t.Fatalf("want 2 symbols, got %v", syms)
	}
	if _, ok := syms["y"]; ok {
		t.Error("y must not be free")
	}
}

// ============================================================
// Equality and determinism
// ============================================================

func TestEqual_CrossType(t *testing.T) {
	if symbolic.N(1).Equal(symbolic.S("x")) {
		t.Error("Num and Sym must not be equal")
	}
	if !symbolic.F(2, 4).Equal(symbolic.F(1, 2)) {
		t.Error("2/4 and 1/2 must be equal")
	}
}

func TestDeterminism(t *testing.T) {
	a := symbolic.MustParse("z + y*x + x^2 - 3", xyz)
	b := symbolic.MustParse("x^2 - 3 + x*y + z", xyz)
	if a.String() != b.String() {
		t.Errorf("simplified forms differ: %s vs %s", a, b)
	}
}
