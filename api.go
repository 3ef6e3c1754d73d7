package penalty

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/njchilds90/penalty/symbolic"
)

// ============================================================
// JSON solve API
// ============================================================

// SolveRequest is the wire form of a problem.
type SolveRequest struct {
	Objective    string `json:"objective"`
	Constraint   string `json:"constraint"`
	Tolerance    string `json:"tolerance"`
	MaxRounds    int    `json:"max_rounds,omitempty"`
	StopOnSaddle bool   `json:"stop_on_saddle,omitempty"`
}

// Validate checks the request's numeric fields. A positive ceiling caps
// max_rounds; zero leaves it uncapped.
func (req SolveRequest) Validate(ceiling int) error {
	switch {
	case req.MaxRounds < 0:
		return fmt.Errorf("%w: max_rounds must not be negative, got %d", ErrRequest, req.MaxRounds)
	case ceiling > 0 && req.MaxRounds > ceiling:
		return fmt.Errorf("%w: max_rounds %d exceeds the limit of %d", ErrRequest, req.MaxRounds, ceiling)
	}
	return nil
}

// Problem builds the problem described by req; opts are applied first so
// the request's own settings win.
func (req SolveRequest) Problem(opts ...Option) (*Problem, error) {
	if err := req.Validate(0); err != nil {
		return nil, err
	}
	all := append([]Option(nil), opts...)
	if req.MaxRounds > 0 {
		all = append(all, WithMaxRounds(req.MaxRounds))
	}
	if req.StopOnSaddle {
		all = append(all, WithStopOnSaddle(true))
	}
	return NewProblem(req.Objective, req.Constraint, req.Tolerance, all...)
}

type RoundResponse struct {
	Round             int               `json:"round"`
	Weight            string            `json:"u"`
	Point             map[string]string `json:"point"`
	Candidates        int               `json:"candidates"`
	ObjectiveValue    string            `json:"objective_value"`
	Violation         string            `json:"violation"`
	WeightedViolation string            `json:"weighted_violation"`
	Exact             bool              `json:"exact"`
}

type EigenvalueResponse struct {
	Value *float64 `json:"value,omitempty"`
	Exact string   `json:"exact,omitempty"`
	Sign  string   `json:"sign"`
}

// SolveResponse is the wire form of a Result. Exact rationals are encoded
// as strings ("300/301").
type SolveResponse struct {
	Status            string               `json:"status"`
	Classification    string               `json:"classification"`
	Message           string               `json:"message"`
	Point             map[string]string    `json:"point"`
	ObjectiveValue    string               `json:"objective_value"`
	Weight            string               `json:"weight"`
	Violation         string               `json:"violation"`
	WeightedViolation string               `json:"weighted_violation"`
	Tolerance         string               `json:"tolerance"`
	Exact             bool                 `json:"exact"`
	Rounds            []RoundResponse      `json:"rounds"`
	Eigenvalues       []EigenvalueResponse `json:"eigenvalues"`
	Hessian           string               `json:"hessian"`
	HessianLaTeX      string               `json:"hessian_latex"`
	Report            string               `json:"report"`
	Error             string               `json:"error,omitempty"`
	RunID             string               `json:"run_id,omitempty"`
	Cached            bool                 `json:"cached,omitempty"`
}

func pointMap(p Point) map[string]string {
	m := make(map[string]string, len(p.Symbols))
	for i, name := range p.Symbols {
		if p.Values[i] != nil {
			m[name] = p.Coord(i)
		}
	}
	return m
}

func newRoundResponse(r Round) RoundResponse {
	return RoundResponse{
		Round:             r.Index,
		Weight:            r.Weight.RatString(),
		Point:             pointMap(r.Point),
		Candidates:        r.Candidates,
		ObjectiveValue:    formatValue(r.Objective, r.Point),
		Violation:         formatRat(r.Violation, r.Point),
		WeightedViolation: formatRat(r.Weighted, r.Point),
		Exact:             r.Point.Exact(),
	}
}

// NewResponse converts a Result. err, if any, is recorded in Error; a
// RoundLimit result still carries its last round.
func NewResponse(res *Result, err error) SolveResponse {
	var resp SolveResponse
	if err != nil {
		resp.Error = err.Error()
	}
	if res == nil {
		return resp
	}
	resp.Status = res.Status.String()
	resp.Classification = res.Classification.String()
	resp.Message = res.Classification.Message()
	resp.Tolerance = res.Tolerance.RatString()
	resp.Report = res.Report()
	if len(res.Rounds) > 0 {
		f := newRoundResponse(res.Final)
		resp.Point = f.Point
		resp.ObjectiveValue = f.ObjectiveValue
		resp.Weight = f.Weight
		resp.Violation = f.Violation
		resp.WeightedViolation = f.WeightedViolation
		resp.Exact = f.Exact
	}
	resp.Rounds = make([]RoundResponse, len(res.Rounds))
	for i, r := range res.Rounds {
		resp.Rounds[i] = newRoundResponse(r)
	}
	resp.Eigenvalues = make([]EigenvalueResponse, len(res.Curvature.Eigenvalues))
	for i, ev := range res.Curvature.Eigenvalues {
		er := EigenvalueResponse{Sign: ev.Sign.String()}
		if !math.IsNaN(ev.Value) {
			v := ev.Value
			er.Value = &v
		}
		if ev.Exact != nil {
			er.Exact = ev.Exact.RatString()
		}
		resp.Eigenvalues[i] = er
	}
	if h := res.Curvature.Hessian; h != nil {
		resp.Hessian = h.String()
		resp.HessianLaTeX = h.LaTeX()
	}
	return resp
}

// Fingerprint identifies the problem by its canonical inputs, so that
// "x**2" and "x^2" or "0.01" and "1/100" give the same key. Solving is
// deterministic, which makes it a valid cache key for Results.
func (p *Problem) Fingerprint() string {
	names := p.symbols.Names()
	h := sha256.New()
	fmt.Fprintf(h, "symbols=%s\n", strings.Join(names, ","))
	fmt.Fprintf(h, "objective=%s\n", symbolic.Canonical(p.objective, names))
	fmt.Fprintf(h, "constraint=%s\n", symbolic.Canonical(p.constraint, names))
	fmt.Fprintf(h, "tolerance=%s\n", p.tolerance.RatString())
	fmt.Fprintf(h, "max_rounds=%d\n", p.opts.maxRounds)
	fmt.Fprintf(h, "stop_on_saddle=%t\n", p.opts.stopOnSaddle)
	return hex.EncodeToString(h.Sum(nil))
}
