// Package server exposes the solver over HTTP.
//
//	POST /solve   solve a problem (penalty.SolveRequest → penalty.SolveResponse)
//	GET  /schema  JSON schema of the request body
//	GET  /health  liveness check
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/njchilds90/penalty"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Solver is satisfied by *service.Service.
type Solver interface {
	Solve(ctx context.Context, req penalty.SolveRequest) (penalty.SolveResponse, error)
}

const requestSchema = `{
  "type": "object",
  "required": ["objective", "constraint", "tolerance"],
  "additionalProperties": false,
  "properties": {
    "objective":      {"type": "string", "description": "objective f(x, y, z)"},
    "constraint":     {"type": "string", "description": "g(x, y, z) in the constraint g = 0"},
    "tolerance":      {"type": "string", "description": "non-negative bound on u*g^2, e.g. \"0.01\""},
    "max_rounds":     {"type": "integer", "minimum": 1},
    "stop_on_saddle": {"type": "boolean"}
  }
}`

// Handler routes the solver endpoints.
func Handler(solver Solver, logger *slog.Logger) http.Handler {
	log := logger.With(slog.String("component", "server"))
	mux := http.NewServeMux()

	mux.HandleFunc("/solve", func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic in /solve", slog.Any("panic", rec), slog.String("stack", string(debug.Stack())))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req penalty.SolveRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		resp, err := solver.Solve(r.Context(), req)
		writeJSON(w, StatusCode(err), resp)
	})

	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, requestSchema)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

// StatusCode maps a solve error to an HTTP status. A round limit still
// carries a full result, so it is a 200.
func StatusCode(err error) int {
	switch {
	case err == nil, errors.Is(err, penalty.ErrNotConverged):
		return http.StatusOK
	case errors.Is(err, penalty.ErrParse), errors.Is(err, penalty.ErrTolerance),
		errors.Is(err, penalty.ErrSymbols), errors.Is(err, penalty.ErrRequest):
		return http.StatusBadRequest
	case errors.Is(err, penalty.ErrSolve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// New returns an http.Server with conservative timeouts.
func New(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("penalty server listening", slog.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
