package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mikefara123/vcoin-engine/internal/model"
	"github.com/mikefara123/vcoin-engine/internal/scenario"
	"github.com/mikefara123/vcoin-engine/internal/scorer"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scenario evaluation server",
	Long:  "Serves cohort scoring and scenario projection over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst)
		mux := newServeMux(limiter)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newServeMux builds the HTTP routes. The limiter is shared across
// endpoints so a burst of scenario requests also throttles scoring.
func newServeMux(limiter *rate.Limiter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /v1/score", withRateLimit(limiter, handleScore))
	mux.HandleFunc("POST /v1/scenario", withRateLimit(limiter, handleScenario))

	return mux
}

func withRateLimit(limiter *rate.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

type scoreRequest struct {
	Items []model.ContentItem `json:"items"`
	Alpha float64             `json:"alpha,omitempty"`
	Beta  float64             `json:"beta,omitempty"`
}

type scoreResponse struct {
	Weights     []float64 `json:"weights"`
	TotalWeight float64   `json:"total_weight"`
}

func handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		http.Error(w, `{"error":"items is required"}`, http.StatusBadRequest)
		return
	}

	params := scorer.DefaultParams()
	if req.Alpha > 0 {
		params.Alpha = req.Alpha
	}
	if req.Beta > 0 {
		params.Beta = req.Beta
	}

	engine, err := scorer.New(params)
	if err != nil {
		writeError(w, err)
		return
	}
	weights, total, err := engine.ScoreCohort(req.Items)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scoreResponse{Weights: weights, TotalWeight: total})
}

type scenarioRequest struct {
	Config  scenario.Config `json:"config"`
	Periods int             `json:"periods"`
}

func handleScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Periods <= 0 {
		http.Error(w, `{"error":"periods must be positive"}`, http.StatusBadRequest)
		return
	}

	if err := req.Config.Validate(); err != nil {
		writeError(w, err)
		return
	}

	runner, err := scenario.New(req.Config)
	if err != nil {
		writeError(w, err)
		return
	}
	snaps, err := runner.Run(req.Periods)
	if err != nil {
		zap.L().Error("scenario request failed", zap.Error(err))
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"snapshots": snaps})
}

// writeError maps engine sentinel errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case eris.Is(err, model.ErrValidation), eris.Is(err, model.ErrConfiguration):
		status = http.StatusBadRequest
	case eris.Is(err, model.ErrDegenerateInput):
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
