package symbolic_test

import (
	"math/big"
	"testing"

	"github.com/njchilds90/penalty/symbolic"
)

func TestMatrix_Det2x2(t *testing.T) {
	m := symbolic.NewMatrix(2, 2)
	m.Set(0, 0, symbolic.N(1))
	m.Set(0, 1, symbolic.N(2))
	m.Set(1, 0, symbolic.N(3))
	m.Set(1, 1, symbolic.N(4))
	if got := m.Det().String(); got != "-2" {
		t.Errorf("want -2, got %s", got)
	}
}

func TestMatrix_DetSymbolic(t *testing.T) {
	m := symbolic.NewMatrix(2, 2)
	m.Set(0, 0, symbolic.S("x"))
	m.Set(1, 1, symbolic.S("y"))
	if got := m.Det().String(); got != "x*y" {
		t.Errorf("want x*y, got %s", got)
	}
}

func TestHessian_Diagonal(t *testing.T) {
	h := symbolic.Hessian(symbolic.MustParse("x^2 + y^2 + z^2", xyz), xyz)
	if h.String() != "[[2, 0, 0], [0, 2, 0], [0, 0, 2]]" {
		t.Errorf("unexpected Hessian %s", h)
	}
	if !h.IsSymmetric() {
		t.Error("Hessian must be symmetric")
	}
	if got := h.Det().String(); got != "8" {
		t.Errorf("det: want 8, got %s", got)
	}
	if got := h.Trace().String(); got != "6" {
		t.Errorf("trace: want 6, got %s", got)
	}
}

func TestHessian_Mixed(t *testing.T) {
	h := symbolic.Hessian(symbolic.MustParse("x*y + z^3", xyz), xyz)
	if got := h.Get(0, 1).String(); got != "1" {
		t.Errorf("H[0][1]: want 1, got %s", got)
	}
	if got := h.Get(2, 2).String(); got != "6*z" {
		t.Errorf("H[2][2]: want 6*z, got %s", got)
	}
	if _, ok := h.Constant(); ok {
		t.Error("Hessian depends on z and is not constant")
	}
}

func TestMatrix_Constant(t *testing.T) {
	h := symbolic.Hessian(symbolic.MustParse("x^2 - 3*y*z", xyz), xyz)
	rs, ok := h.Constant()
	if !ok {
		t.Fatal("expected a constant Hessian")
	}
	if rs[1][2].Cmp(big.NewRat(-3, 1)) != 0 || rs[0][0].Cmp(big.NewRat(2, 1)) != 0 {
		t.Errorf("unexpected entries %v", rs)
	}
}

func TestMatrix_PrincipalMinor(t *testing.T) {
	h := symbolic.Hessian(symbolic.MustParse("x^2 + 2*x*z + 5*z^2", xyz), xyz)
	minor := h.PrincipalMinor([]int{0, 2})
	if minor.String() != "[[2, 2], [2, 10]]" {
		t.Errorf("unexpected minor %s", minor)
	}
	if got := minor.Det().String(); got != "16" {
		t.Errorf("det: want 16, got %s", got)
	}
}

func TestMatrix_LaTeX(t *testing.T) {
	m := symbolic.NewMatrix(1, 2)
	m.Set(0, 0, symbolic.F(1, 2))
	m.Set(0, 1, symbolic.S("x"))
	if got := m.LaTeX(); got != `\begin{pmatrix}\frac{1}{2} & x\end{pmatrix}` {
		t.Errorf("unexpected LaTeX %s", got)
	}
}

func TestMatrix_OutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Get out of range should panic")
		}
	}()
	symbolic.NewMatrix(2, 2).Get(2, 0)
}
