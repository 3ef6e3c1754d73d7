package symbolic

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Matrix — symbolic matrix
// ============================================================

// Matrix is a dense rows×cols matrix of expressions, stored row-major.
// Fresh matrices are filled with 0.
type Matrix struct {
	rows, cols int
	cells      []Expr
}

func NewMatrix(rows, cols int) *Matrix {
	m := &Matrix{rows: rows, cols: cols, cells: make([]Expr, rows*cols)}
	for i := range m.cells {
		m.cells[i] = N(0)
	}
	return m
}

func (m *Matrix) at(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("symbolic: matrix index [%d,%d] out of range for %dx%d", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

func (m *Matrix) Get(row, col int) Expr      { return m.cells[m.at(row, col)] }
func (m *Matrix) Set(row, col int, val Expr) { m.cells[m.at(row, col)] = val }
func (m *Matrix) Rows() int                  { return m.rows }
func (m *Matrix) Cols() int                  { return m.cols }

// format renders each row through cell, joining cells with sep and rows
// with rowSep.
func (m *Matrix) format(cell func(Expr) string, open, sep, rowOpen, rowClose, rowSep, closing string) string {
	rows := make([]string, m.rows)
	parts := make([]string, m.cols)
	for i := range rows {
		for j := range parts {
			parts[j] = cell(m.Get(i, j))
		}
		rows[i] = rowOpen + strings.Join(parts, sep) + rowClose
	}
	return open + strings.Join(rows, rowSep) + closing
}

// String renders [[a, b], [c, d]].
func (m *Matrix) String() string {
	return m.format(Expr.String, "[", ", ", "[", "]", ", ", "]")
}

// LaTeX renders a pmatrix environment.
func (m *Matrix) LaTeX() string {
	return m.format(Expr.LaTeX, `\begin{pmatrix}`, " & ", "", "", ` \\ `, `\end{pmatrix}`)
}

func (m *Matrix) mustSquare(op string) {
	if m.rows != m.cols {
		panic(fmt.Sprintf("symbolic: %s requires a square matrix, got %dx%d", op, m.rows, m.cols))
	}
}

// IsSymmetric reports whether m is square and m[i][j] equals m[j][i]
// structurally.
func (m *Matrix) IsSymmetric() bool {
	if m.rows != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := i + 1; j < m.cols; j++ {
			if !m.Get(i, j).Equal(m.Get(j, i)) {
				return false
			}
		}
	}
	return true
}

func (m *Matrix) Trace() Expr {
	m.mustSquare("Trace")
	diag := make([]Expr, m.rows)
	for i := range diag {
		diag[i] = m.Get(i, i)
	}
	return AddOf(diag...)
}

// Det expands along the first remaining row. Hessians here are at most 3×3,
// so cofactor expansion stays small.
func (m *Matrix) Det() Expr {
	m.mustSquare("Det")
	cols := make([]int, m.cols)
	for j := range cols {
		cols[j] = j
	}
	return m.cofactorDet(0, cols)
}

func (m *Matrix) cofactorDet(row int, cols []int) Expr {
	switch len(cols) {
	case 0:
		return N(1)
	case 1:
		return m.Get(row, cols[0]).Simplify()
	case 2:
		return SubOf(
			MulOf(m.Get(row, cols[0]), m.Get(row+1, cols[1])),
			MulOf(m.Get(row, cols[1]), m.Get(row+1, cols[0])),
		)
	}
	terms := make([]Expr, 0, len(cols))
	rest := make([]int, 0, len(cols)-1)
	for k, c := range cols {
		if m.Get(row, c).Equal(N(0)) {
			continue
		}
		rest = append(append(rest[:0], cols[:k]...), cols[k+1:]...)
		term := MulOf(m.Get(row, c), m.cofactorDet(row+1, append([]int(nil), rest...)))
		if k%2 == 1 {
			term = MulOf(N(-1), term)
		}
		terms = append(terms, term)
	}
	return AddOf(terms...)
}

// PrincipalMinor returns the square submatrix keeping the given rows and
// the same columns.
func (m *Matrix) PrincipalMinor(idx []int) *Matrix {
	out := NewMatrix(len(idx), len(idx))
	for i, r := range idx {
		for j, c := range idx {
			out.Set(i, j, m.Get(r, c))
		}
	}
	return out
}

// Constant returns the entries as rationals when every entry evaluates to
// a number.
func (m *Matrix) Constant() ([][]*big.Rat, bool) {
	out := make([][]*big.Rat, m.rows)
	for i := range out {
		out[i] = make([]*big.Rat, m.cols)
		for j := range out[i] {
			v, ok := m.Get(i, j).Eval()
			if !ok {
				return nil, false
			}
			out[i][j] = v.Rat()
		}
	}
	return out, true
}
