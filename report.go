package penalty

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/njchilds90/penalty/symbolic"
)

// decimalDigits is the precision of weights, violations and tolerances in
// console output. Points and objective values are printed exactly unless
// a coordinate is a float64 root.
const decimalDigits = 6

func formatDecimal(r *big.Rat) string {
	if r == nil {
		return "<nil>"
	}
	return symbolic.FormatRat(r, decimalDigits)
}

func formatWeight(u *big.Rat) string { return formatDecimal(u) }

// formatValue renders the objective at p. At an approximate point the
// rational is only a float64 image, so it is shown as a decimal.
func formatValue(e symbolic.Expr, p Point) string {
	if e == nil {
		return "<nil>"
	}
	if n, ok := e.(*symbolic.Num); ok && !p.Exact() {
		return "~" + n.Decimal(approxDigits)
	}
	return e.String()
}

// formatRat is formatValue for the derived violation quantities.
func formatRat(r *big.Rat, p Point) string {
	if !p.Exact() {
		return "~" + symbolic.FormatRat(r, approxDigits)
	}
	return r.RatString()
}

// progressLines reports a round that escalates the weight.
func progressLines(r Round) []string {
	return []string{
		fmt.Sprintf("Objective value %s at point %s", formatValue(r.Objective, r.Point), r.Point),
		fmt.Sprintf("%s > %s continuing iterations for u=%s",
			formatDecimal(r.Weighted), formatDecimal(r.Tolerance), formatWeight(r.Weight)),
	}
}

func finalLines(res *Result) []string {
	f := res.Final
	w, tol := formatDecimal(f.Weighted), formatDecimal(res.Tolerance)
	var head string
	switch res.Status {
	case Converged:
		head = fmt.Sprintf("%s <= %s ceasing iterations", w, tol)
	case SaddleStop:
		head = fmt.Sprintf("%s > %s ceasing iterations", w, tol)
	case RoundLimit:
		head = fmt.Sprintf("%s > %s round limit of %d reached", w, tol, len(res.Rounds))
	default:
		head = fmt.Sprintf("%s ? %s", w, tol)
	}
	return []string{
		head,
		fmt.Sprintf("Final objective value %s at point %s for u=%s",
			formatValue(f.Objective, f.Point), f.Point, formatWeight(f.Weight)),
		res.Classification.Message(),
	}
}

// Report renders the whole session the way an interactive run prints it.
func (res *Result) Report() string {
	if len(res.Rounds) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range res.Rounds[:len(res.Rounds)-1] {
		for _, line := range progressLines(r) {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	for _, line := range finalLines(res) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
