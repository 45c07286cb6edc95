package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidemark/tradecore/execution"
	"github.com/tidemark/tradecore/logging"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusProvider exposes the engine's lifecycle snapshot.
type StatusProvider interface {
	Status() execution.Status
}

// CommandLog exposes the publisher's last successfully sent payload.
type CommandLog interface {
	LastSent() string
}

// Server is the operator-facing HTTP surface: lifecycle status and
// Prometheus metrics. It only ever reads published snapshots, so it never
// contends with the decision loop.
type Server struct {
	log       *logging.Logger
	cfg       Config
	engine    StatusProvider
	publisher CommandLog
}

func NewServer(log *logging.Logger, cfg Config, engine StatusProvider, publisher CommandLog) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Server{
		log:       log,
		cfg:       cfg,
		engine:    engine,
		publisher: publisher,
	}
}

// Serve blocks until the context is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	if !s.cfg.Enabled {
		<-ctx.Done()
		return nil
	}

	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/status", s.handleStatus)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	addr := fmt.Sprintf("%s:%d", s.cfg.IP, s.cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("admin server started", logging.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.log.Warn("admin server shutdown failed", logging.Error(err))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("admin server failed: %w", err)
	}
}

type statusResponse struct {
	execution.Status
	LastSent string `json:"last_sent"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		Status:   s.engine.Status(),
		LastSent: s.publisher.LastSent(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("failed to write status response", logging.Error(err))
	}
}
