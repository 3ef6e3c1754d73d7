package penalty_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/penalty"
	"github.com/njchilds90/penalty/symbolic"
)

func analyze(t *testing.T, objective string) penalty.Curvature {
	t.Helper()
	f, err := symbolic.Parse(objective, penalty.DefaultSymbols.Names())
	require.NoError(t, err)
	c, err := penalty.AnalyzeHessian(f, penalty.DefaultSymbols)
	require.NoError(t, err)
	return c
}

func signs(c penalty.Curvature) []penalty.Sign {
	out := make([]penalty.Sign, len(c.Eigenvalues))
	for i, ev := range c.Eigenvalues {
		out[i] = ev.Sign
	}
	return out
}

func TestAnalyzeHessian_PositiveDefinite(t *testing.T) {
	c := analyze(t, "x**2 + y**2 + z**2")
	assert.Equal(t, "[[2, 0, 0], [0, 2, 0], [0, 0, 2]]", c.Hessian.String())
	require.Len(t, c.Eigenvalues, 3)
	for _, ev := range c.Eigenvalues {
		assert.Equal(t, penalty.SignPositive, ev.Sign)
		require.NotNil(t, ev.Exact)
		assert.Equal(t, "2", ev.Exact.RatString())
		assert.Equal(t, 2.0, ev.Value)
	}
	assert.True(t, c.Min)
	assert.False(t, c.Max)
	assert.False(t, c.Saddle())
}

func TestAnalyzeHessian_NegativeDefinite(t *testing.T) {
	c := analyze(t, "-x**2 - y**2 - z**2")
	assert.Equal(t, []penalty.Sign{penalty.SignNegative, penalty.SignNegative, penalty.SignNegative}, signs(c))
	assert.False(t, c.Min)
	assert.True(t, c.Max)
}

func TestAnalyzeHessian_MixedSigns(t *testing.T) {
	c := analyze(t, "x*y")
	assert.Equal(t, []penalty.Sign{penalty.SignNegative, penalty.SignZero, penalty.SignPositive}, signs(c))
	want := []string{"-1", "0", "1"}
	for i, ev := range c.Eigenvalues {
		require.NotNil(t, ev.Exact, "eigenvalue %d", i)
		assert.Equal(t, want[i], ev.Exact.RatString())
	}
	assert.True(t, c.Saddle())
}

func TestAnalyzeHessian_Semidefinite(t *testing.T) {
	c := analyze(t, "x**2")
	assert.Equal(t, []penalty.Sign{penalty.SignZero, penalty.SignZero, penalty.SignPositive}, signs(c))
	assert.True(t, c.Min)
	assert.False(t, c.Max)
}

func TestAnalyzeHessian_IrrationalEigenvalues(t *testing.T) {
	// det(tI - H) = t(t² - 2t - 1), roots 1 ± √2 and 0.
	c := analyze(t, "x**2 + x*y")
	require.Len(t, c.Eigenvalues, 3)
	assert.Equal(t, []penalty.Sign{penalty.SignNegative, penalty.SignZero, penalty.SignPositive}, signs(c))
	assert.InDelta(t, 1-math.Sqrt2, c.Eigenvalues[0].Value, 1e-12)
	assert.InDelta(t, 1+math.Sqrt2, c.Eigenvalues[2].Value, 1e-12)
	assert.Nil(t, c.Eigenvalues[0].Exact)
	assert.Nil(t, c.Eigenvalues[2].Exact)
	assert.True(t, c.Saddle())
}

func TestAnalyzeHessian_NonConstant(t *testing.T) {
	c := analyze(t, "x**3 + y**2 + z**2")
	assert.Equal(t, "[[6*x, 0, 0], [0, 2, 0], [0, 0, 2]]", c.Hessian.String())
	for _, ev := range c.Eigenvalues {
		assert.Equal(t, penalty.SignIndeterminate, ev.Sign)
		assert.True(t, math.IsNaN(ev.Value))
		assert.Nil(t, ev.Exact)
	}
	assert.False(t, c.Min)
	assert.False(t, c.Max)

	p, err := penalty.NewProblem("x**3 + y**2 + z**2", "x - 1", "0.01")
	require.NoError(t, err)
	assert.Equal(t, penalty.Unknown, p.Classification())
	assert.Equal(t, "Point is unknown", p.Classification().Message())
}

func TestAnalyzeHessian_LinearObjective(t *testing.T) {
	c := analyze(t, "x + 2*y - z")
	assert.Equal(t, []penalty.Sign{penalty.SignZero, penalty.SignZero, penalty.SignZero}, signs(c))
	assert.False(t, c.Min)
	assert.False(t, c.Max)
}
