package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	urfave "github.com/urfave/cli/v2"

	"github.com/mchmarny/reval/pkg/data"
	"github.com/mchmarny/reval/pkg/scoring"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080

	serverListLimitDefault = 100
)

var (
	portFlag = &urfave.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	serverCmd = &urfave.Command{
		Name:            "server",
		Aliases:         []string{"serve"},
		HideHelpCommand: true,
		Usage:           "Start a local HTTP API over cached valuations",
		Action:          cmdStartServer,
		Flags: []urfave.Flag{
			portFlag,
		},
	}
)

func cmdStartServer(c *urfave.Context) error {
	cfg := getConfig(c)
	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	mux := makeRouter(cfg.DB)
	s := &http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/properties", propertiesHandler(db))
	mux.HandleFunc("GET /api/properties/{zpid}", propertyHandler(db))
	mux.HandleFunc("GET /api/valuations", valuationsHandler(db))
	mux.HandleFunc("GET /api/valuations/{zpid}", valuationHandler(db))
	mux.HandleFunc("POST /api/score", scoreHandler())

	return mux
}

func propertiesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := data.QueryProperties(db, r.URL.Query().Get("q"), listLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func propertyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := data.GetProperty(db, r.PathValue("zpid"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, errors.New("property not found"))
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func valuationsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := data.ListValuations(db, listLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func valuationHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := data.GetLatestValuation(db, r.PathValue("zpid"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if v == nil {
			writeError(w, http.StatusNotFound, errors.New("no valuation for property"))
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// scoreRequest is the ad-hoc scoring API payload. Weights default to the
// canonical configuration when omitted.
type scoreRequest struct {
	Scores  []scoring.FactorScore `json:"scores"`
	Weights scoring.Weights       `json:"weights,omitempty"`
}

func scoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}

		weights := req.Weights
		if len(weights) == 0 {
			weights = scoring.DefaultWeights()
		}

		result, err := scoring.ComputeValuation(req.Scores, weights)
		if err != nil {
			var unknownErr *scoring.UnknownFactorError
			var weightErr *scoring.InvalidWeightConfigurationError
			if errors.As(err, &unknownErr) || errors.As(err, &weightErr) {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func listLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return serverListLimitDefault
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	slog.Debug("request error", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
