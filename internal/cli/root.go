package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/njchilds90/penalty"
	"github.com/njchilds90/penalty/internal/cache"
	"github.com/njchilds90/penalty/internal/config"
	"github.com/njchilds90/penalty/internal/history"
	"github.com/njchilds90/penalty/internal/logging"
	"github.com/njchilds90/penalty/internal/service"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitUsage        = 1
	ExitSolve        = 2
	ExitNotConverged = 3
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, penalty.ErrNotConverged):
		return ExitNotConverged
	case errors.Is(err, penalty.ErrSolve):
		return ExitSolve
	}
	return ExitUsage
}

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	logLevel string
	noColor  bool
}

// NewRootCmd builds the penalty command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "penalty",
		Short: "Approximate constrained nonlinear programs with the quadratic penalty method",
		Long: `penalty minimizes or maximizes an objective f(x, y, z) subject to a single
equality constraint g(x, y, z) = 0. Each penalized subproblem f + u*g^2 is
solved exactly; u grows tenfold until u*g^2 drops to the tolerance.

  penalty solve --objective "x**2 + y**2 + z**2" --constraint "x + y + z - 3" --tolerance 0.01

Configuration is read from PENALTY_* environment variables; flags override.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $PENALTY_LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored log output")

	root.AddCommand(a.solveCmd())
	root.AddCommand(a.promptCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.historyCmd())
	return root
}

// Execute runs the root command and returns the exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return ExitCode(err)
}

func (a *app) initConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, a.noColor)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// newService wires the cache and history configured in the environment.
// The returned func releases their connections.
func (a *app) newService(ctx context.Context) (*service.Service, func(), error) {
	svc := &service.Service{
		Logger:  a.logger,
		Options: []penalty.Option{penalty.WithMaxRounds(a.cfg.MaxRounds), penalty.WithLogger(a.logger)},
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if a.cfg.RedisURL != "" {
		rdb, err := cache.ConnectRedis(a.cfg.RedisURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("%w\nSet PENALTY_REDIS_URL environment variable", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		svc.Cache = cache.New(rdb, a.cfg.CacheTTL)
		a.logger.Debug("report cache enabled", slog.String("addr", rdb.Options().Addr))
	}
	if a.cfg.DatabaseURL != "" {
		pool, err := history.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("%w\nSet PENALTY_DATABASE_URL environment variable", err)
		}
		closers = append(closers, pool.Close)
		svc.History = history.New(pool)
	}
	return svc, cleanup, nil
}

func (a *app) historyStore(ctx context.Context) (*history.Store, func(), error) {
	if a.cfg.DatabaseURL == "" {
		return nil, nil, errors.New("solve history is disabled\nSet PENALTY_DATABASE_URL environment variable")
	}
	pool, err := history.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return history.New(pool), pool.Close, nil
}
