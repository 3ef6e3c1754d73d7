package penalty

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Observer receives progress from Solve and has no influence on control
// flow. ObserveRound is called for every round that escalates the weight;
// the terminal round arrives as Result.Final in ObserveResult, which is
// skipped when Solve fails with an error other than ErrNotConverged.
type Observer interface {
	ObserveRound(r Round)
	ObserveResult(res *Result)
}

// Observers fans out to several observers in order.
type Observers []Observer

func (obs Observers) ObserveRound(r Round) {
	for _, o := range obs {
		o.ObserveRound(r)
	}
}

func (obs Observers) ObserveResult(res *Result) {
	for _, o := range obs {
		o.ObserveResult(res)
	}
}

// LogObserver writes one structured record per round and one per result.
type LogObserver struct {
	Logger *slog.Logger
}

func (l LogObserver) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l LogObserver) ObserveRound(r Round) {
	l.logger().Info("penalty round",
		slog.Int("round", r.Index),
		slog.String("u", formatWeight(r.Weight)),
		slog.String("objective", formatValue(r.Objective, r.Point)),
		slog.String("point", r.Point.String()),
		slog.String("weighted_violation", formatDecimal(r.Weighted)),
		slog.Bool("converged", r.Converged))
}

func (l LogObserver) ObserveResult(res *Result) {
	level := slog.LevelInfo
	if res.Status == RoundLimit {
		level = slog.LevelWarn
	}
	l.logger().Log(context.Background(), level, "penalty result",
		slog.String("status", res.Status.String()),
		slog.String("classification", res.Classification.String()),
		slog.Int("rounds", len(res.Rounds)),
		slog.String("u", formatWeight(res.Final.Weight)),
		slog.String("point", res.Final.Point.String()))
}

// ConsoleObserver prints the progress lines of an interactive session.
type ConsoleObserver struct {
	W io.Writer
}

func (c ConsoleObserver) ObserveRound(r Round) {
	for _, line := range progressLines(r) {
		fmt.Fprintln(c.W, line)
	}
}

func (c ConsoleObserver) ObserveResult(res *Result) {
	for _, line := range finalLines(res) {
		fmt.Fprintln(c.W, line)
	}
}
