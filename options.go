package penalty

import (
	"log/slog"
)

// Defaults.
const (
	// DefaultMaxRounds bounds the escalation loop. With u growing tenfold per
	// round, 30 rounds end at u = 1e28.
	DefaultMaxRounds = 30

	// DefaultStopOnSaddle keeps iterating on saddle objectives.
	DefaultStopOnSaddle = false
)

const panicMaxRoundsInvalid = "penalty: WithMaxRounds: n must be positive"

// Option configures a Problem. Constructors panic only on nonsensical
// values (programmer error); user input is validated by NewProblem.
type Option func(*options)

type options struct {
	symbols      SymbolSet
	maxRounds    int
	stopOnSaddle bool
	observer     Observer
	logger       *slog.Logger
}

func gatherOptions(opts ...Option) options {
	o := options{
		symbols:      DefaultSymbols,
		maxRounds:    DefaultMaxRounds,
		stopOnSaddle: DefaultStopOnSaddle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithSymbols replaces the x, y, z symbol set. Build s with NewSymbolSet.
func WithSymbols(s SymbolSet) Option {
	return func(o *options) { o.symbols = s }
}

// WithMaxRounds sets the number of penalty weights tried before giving up
// with ErrNotConverged.
func WithMaxRounds(n int) Option {
	if n <= 0 {
		panic(panicMaxRoundsInvalid)
	}
	return func(o *options) { o.maxRounds = n }
}

// WithStopOnSaddle ends the solve after the first round when the objective
// has mixed curvature, since the penalty method cannot classify its result.
func WithStopOnSaddle(stop bool) Option {
	return func(o *options) { o.stopOnSaddle = stop }
}

// WithObserver registers a hook called after every round.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger sets the logger for debug records; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
