package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/pkg/metrics"
	"go.uber.org/zap"
)

// MetricServer exposes the prometheus registry on its own listener and
// starts the active users gauge over once per window.
type MetricServer struct {
	cfg        config.Metrics
	listener   net.Listener
	httpServer *http.Server
	log        *zap.SugaredLogger
}

func NewMetricServer(cfg config.Metrics, listener net.Listener) *MetricServer {
	return &MetricServer{
		cfg:      cfg,
		listener: listener,
		httpServer: &http.Server{
			Addr:              cfg.Address,
			Handler:           MetricsRouter(),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		log: zap.S().Named("metrics_server"),
	}
}

// MetricsRouter serves GET /metrics only.
func MetricsRouter() http.Handler {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/metrics", metrics.NewPrometheusMetricsHandler().Handler())
	return router
}

func (m *MetricServer) Run(ctx context.Context) error {
	go m.shutdownOnDone(ctx)
	go ResetActiveUsers(ctx, m.cfg.ActiveUsersWindow)

	m.log.Infof("serving metrics on %s", m.listener.Addr())
	err := m.httpServer.Serve(m.listener)
	if errors.Is(err, net.ErrClosed) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (m *MetricServer) shutdownOnDone(ctx context.Context) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	m.httpServer.SetKeepAlivesEnabled(false)
	if err := m.httpServer.Shutdown(shutdownCtx); err != nil {
		m.log.Warnw("metrics server shutdown", "error", err)
	}
	m.log.Info("metrics server terminated")
}

// ResetActiveUsers clears the active users gauge every window until ctx ends.
func ResetActiveUsers(ctx context.Context, window time.Duration) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.ActiveUsersPerWeek.Reset()
			zap.S().Named("metrics_server").Debugf("active users reset after %s", window)
		}
	}
}
