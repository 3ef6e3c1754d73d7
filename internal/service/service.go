// Package service runs solve requests through the optional report cache and
// solve history around penalty.Problem.Solve.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/njchilds90/penalty"
)

// ReportCache is satisfied by *cache.Cache.
type ReportCache interface {
	Get(ctx context.Context, fingerprint string) (penalty.SolveResponse, bool, error)
	Put(ctx context.Context, fingerprint string, resp penalty.SolveResponse) error
}

// Recorder is satisfied by *history.Store.
type Recorder interface {
	Record(ctx context.Context, req penalty.SolveRequest, fingerprint string, resp penalty.SolveResponse) (uuid.UUID, error)
}

// Service solves requests. Cache and History may be nil.
type Service struct {
	Cache   ReportCache
	History Recorder
	Logger  *slog.Logger
	// Options apply to every problem before the request's own settings.
	Options []penalty.Option
	// RoundCeiling, when positive, is the largest max_rounds a request may
	// ask for.
	RoundCeiling int
}

func (s *Service) logger() *slog.Logger {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.String("component", "service"))
}

// Solve builds and solves the problem in req. The response is always
// populated; err carries the penalty sentinel for callers that map it to a
// status or exit code. Cache and history failures are logged, never returned.
func (s *Service) Solve(ctx context.Context, req penalty.SolveRequest) (penalty.SolveResponse, error) {
	log := s.logger()
	if err := req.Validate(s.RoundCeiling); err != nil {
		return penalty.NewResponse(nil, err), err
	}
	p, err := req.Problem(s.Options...)
	if err != nil {
		return penalty.NewResponse(nil, err), err
	}
	fp := p.Fingerprint()
	log = log.With(slog.String("fingerprint", fp[:12]))

	if s.Cache != nil {
		resp, hit, err := s.Cache.Get(ctx, fp)
		switch {
		case err != nil:
			log.Warn("cache lookup failed", slog.Any("err", err))
		case hit:
			log.Debug("cache hit", slog.String("status", resp.Status))
			resp.Cached = true
			return resp, cachedErr(resp)
		}
	}

	res, err := p.Solve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return penalty.NewResponse(nil, err), err
	}
	resp := penalty.NewResponse(res, err)
	if res != nil && s.Cache != nil {
		if cerr := s.Cache.Put(ctx, fp, resp); cerr != nil {
			log.Warn("cache store failed", slog.Any("err", cerr))
		}
	}
	if s.History != nil {
		id, herr := s.History.Record(ctx, req, fp, resp)
		if herr != nil {
			log.Warn("history record failed", slog.Any("err", herr))
		} else {
			resp.RunID = id.String()
		}
	}
	if res == nil {
		log.Warn("solve failed", slog.Any("err", err))
		return resp, err
	}
	log.Info("solved",
		slog.String("status", resp.Status),
		slog.String("classification", resp.Classification),
		slog.Int("rounds", len(resp.Rounds)))
	return resp, err
}

// Only Results are cached, so the one error a hit can carry is the round
// limit.
func cachedErr(resp penalty.SolveResponse) error {
	if resp.Status == penalty.RoundLimit.String() {
		return penalty.ErrNotConverged
	}
	return nil
}
