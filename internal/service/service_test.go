package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/penalty"
)

type mapCache struct {
	data   map[string]penalty.SolveResponse
	gets   int
	getErr error
}

func (c *mapCache) Get(_ context.Context, fp string) (penalty.SolveResponse, bool, error) {
	c.gets++
	if c.getErr != nil {
		return penalty.SolveResponse{}, false, c.getErr
	}
	r, ok := c.data[fp]
	return r, ok, nil
}

func (c *mapCache) Put(_ context.Context, fp string, resp penalty.SolveResponse) error {
	c.data[fp] = resp
	return nil
}

type recorder struct {
	runs []penalty.SolveResponse
	err  error
}

var runID = uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")

func (r *recorder) Record(_ context.Context, _ penalty.SolveRequest, _ string, resp penalty.SolveResponse) (uuid.UUID, error) {
	if r.err != nil {
		return uuid.Nil, r.err
	}
	r.runs = append(r.runs, resp)
	return runID, nil
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var sphere = penalty.SolveRequest{
	Objective:  "x**2 + y**2 + z**2",
	Constraint: "x + y + z - 3",
	Tolerance:  "0.01",
}

func TestService_SolveCachesAndRecords(t *testing.T) {
	var logs bytes.Buffer
	c := &mapCache{data: map[string]penalty.SolveResponse{}}
	h := &recorder{}
	s := &Service{Cache: c, History: h, Logger: quietLogger(&logs)}

	resp, err := s.Solve(context.Background(), sphere)
	require.NoError(t, err)
	assert.Equal(t, "converged", resp.Status)
	assert.False(t, resp.Cached)
	assert.Equal(t, runID.String(), resp.RunID)
	require.Len(t, c.data, 1)
	require.Len(t, h.runs, 1)

	again, err := s.Solve(context.Background(), penalty.SolveRequest{
		Objective:  "x^2 + y^2 + z^2",
		Constraint: sphere.Constraint,
		Tolerance:  "1/100",
	})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, resp.Point, again.Point)
	assert.Len(t, h.runs, 1, "cache hits are not recorded again")
	assert.Contains(t, logs.String(), "cache hit")
}

func TestService_ParseError(t *testing.T) {
	c := &mapCache{data: map[string]penalty.SolveResponse{}}
	s := &Service{Cache: c}

	resp, err := s.Solve(context.Background(), penalty.SolveRequest{Objective: "x +", Constraint: "x", Tolerance: "1"})
	require.ErrorIs(t, err, penalty.ErrParse)
	assert.NotEmpty(t, resp.Error)
	assert.Zero(t, c.gets)
}

func TestService_SolveErrorNotCached(t *testing.T) {
	c := &mapCache{data: map[string]penalty.SolveResponse{}}
	h := &recorder{}
	s := &Service{Cache: c, History: h, Logger: quietLogger(&bytes.Buffer{})}

	resp, err := s.Solve(context.Background(), penalty.SolveRequest{Objective: "x + y + z", Constraint: "x - 1", Tolerance: "0.01"})
	require.ErrorIs(t, err, penalty.ErrSolve)
	assert.Contains(t, resp.Error, "round 1")
	assert.Empty(t, c.data)
	require.Len(t, h.runs, 1)
}

func TestService_RoundLimitFromCache(t *testing.T) {
	c := &mapCache{data: map[string]penalty.SolveResponse{}}
	s := &Service{Cache: c, Options: []penalty.Option{penalty.WithMaxRounds(2)}, Logger: quietLogger(&bytes.Buffer{})}
	req := penalty.SolveRequest{Objective: sphere.Objective, Constraint: sphere.Constraint, Tolerance: "0"}

	first, err := s.Solve(context.Background(), req)
	require.ErrorIs(t, err, penalty.ErrNotConverged)
	assert.Equal(t, "round-limit", first.Status)

	second, err := s.Solve(context.Background(), req)
	require.ErrorIs(t, err, penalty.ErrNotConverged)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Weight, second.Weight)
}

func TestService_BackendFailuresAreLogged(t *testing.T) {
	var logs bytes.Buffer
	s := &Service{
		Cache:   &mapCache{data: map[string]penalty.SolveResponse{}, getErr: errors.New("redis down")},
		History: &recorder{err: errors.New("pg down")},
		Logger:  quietLogger(&logs),
	}

	resp, err := s.Solve(context.Background(), sphere)
	require.NoError(t, err)
	assert.Equal(t, "converged", resp.Status)
	assert.Empty(t, resp.RunID)
	assert.Contains(t, logs.String(), "redis down")
	assert.Contains(t, logs.String(), "pg down")
}

func TestService_Canceled(t *testing.T) {
	h := &recorder{}
	s := &Service{History: h, Logger: quietLogger(&bytes.Buffer{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Solve(ctx, sphere)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.runs)
}

func TestService_RoundCeiling(t *testing.T) {
	c := &mapCache{data: map[string]penalty.SolveResponse{}}
	h := &recorder{}
	s := &Service{Cache: c, History: h, Logger: quietLogger(&bytes.Buffer{}), RoundCeiling: 30}

	req := sphere
	req.MaxRounds = 1_000_000_000
	resp, err := s.Solve(context.Background(), req)
	require.ErrorIs(t, err, penalty.ErrRequest)
	assert.Contains(t, resp.Error, "exceeds the limit of 30")
	assert.Empty(t, resp.Status)
	assert.Zero(t, c.gets)
	assert.Empty(t, h.runs)

	req.MaxRounds = 30
	resp, err = s.Solve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "converged", resp.Status)
}
