package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/unleex/simchain/pkg/chain"
	apperrors "github.com/unleex/simchain/pkg/errors"
	"github.com/unleex/simchain/pkg/simco"
	"github.com/unleex/simchain/pkg/store"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 5 * time.Second

// =============================================================================
// Serve Command
// =============================================================================

// serveCommand creates the HTTP API command. It exposes the layout and
// profitability lookups over a small JSON API so other tooling can
// consume them without shelling out.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout and profitability data over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}

			g, err := chain.ReadGraphFile(cfg.Graph)
			if err != nil {
				return err
			}

			client, closeCache, err := c.newClient(cmd, cfg, false)
			if err != nil {
				return err
			}
			defer closeCache()

			ctx := cmd.Context()

			var snapshots store.Store
			if cfg.Store.MongoURI != "" {
				db, err := store.NewMongo(ctx, cfg.Store.MongoURI, cfg.Store.Database)
				if err != nil {
					return err
				}
				defer db.Close(ctx)
				snapshots = db
			}

			srv := &server{
				cfg:       cfg,
				graph:     g,
				client:    client,
				snapshots: snapshots,
				logger:    c.Logger,
			}
			return srv.listen(ctx, cfg.Serve.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// =============================================================================
// Server
// =============================================================================

// server holds the HTTP API state.
type server struct {
	cfg       Config
	graph     *chain.Graph
	client    *simco.Client
	snapshots store.Store // nil when no archive is configured
	logger    *log.Logger
}

// routes builds the API router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/layout", s.handleLayout)
	r.Get("/api/pphpl", s.handlePPHPL)
	r.Get("/api/snapshot/latest", s.handleSnapshotLatest)

	return r
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (s *server) listen(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout computes node positions for the configured graph.
// Query params w and h override the configured canvas.
func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	canvas := chain.Size{Width: s.cfg.Canvas.Width, Height: s.cfg.Canvas.Height}
	var err error
	if canvas.Width, err = intQuery(r, "w", canvas.Width); err != nil {
		s.writeError(w, err)
		return
	}
	if canvas.Height, err = intQuery(r, "h", canvas.Height); err != nil {
		s.writeError(w, err)
		return
	}

	positions, err := chain.Layout(s.graph, canvas)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chain.Document{Canvas: canvas, Positions: positions})
}

// handlePPHPL returns profitability per resource for a realm.
func (s *server) handlePPHPL(w http.ResponseWriter, r *http.Request) {
	realm, err := intQuery(r, "realm", s.cfg.Realm)
	if err != nil {
		s.writeError(w, err)
		return
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	pphpls, err := s.client.PPHPLs(r.Context(), simco.Realm(realm), nil, s.cfg.AdminOverhead, refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pphpls)
}

// handleSnapshotLatest returns the latest archived snapshot for a realm.
func (s *server) handleSnapshotLatest(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "no snapshot store configured"))
		return
	}
	realm, err := intQuery(r, "realm", s.cfg.Realm)
	if err != nil {
		s.writeError(w, err)
		return
	}

	snap, err := s.snapshots.Latest(r.Context(), realm)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "no snapshot for realm %d", realm))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// =============================================================================
// Response Helpers
// =============================================================================

// errorResponse is the JSON error body.
type errorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP status codes.
func (s *server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)

	status := http.StatusInternalServerError
	switch {
	case apperrors.IsStructural(err), apperrors.IsDomain(err), code == apperrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case code == apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case code == apperrors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case apperrors.IsLookup(err), code == apperrors.ErrCodeNetwork:
		status = http.StatusBadGateway
	}

	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Error: apperrors.UserMessage(err)})
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "query param %s: not an integer", name)
	}
	return v, nil
}
