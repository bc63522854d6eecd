package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kubev2v/job-tracker/internal/api/server"
	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/internal/config"
	handlers "github.com/kubev2v/job-tracker/internal/handlers/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/service"
	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/kubev2v/job-tracker/pkg/metrics"
	"github.com/kubev2v/job-tracker/pkg/middleware"
	"github.com/kubev2v/job-tracker/pkg/requestid"
)

const (
	gracefulShutdownTimeout = 5 * time.Second

	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of a job tracker api server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

// NewRouter wires the middleware chain and the api routes on top of the job service.
func NewRouter(
	cfg *config.Config,
	jobService *service.JobService,
	authenticator auth.Authenticator,
	identity auth.IdentityProvider,
) (http.Handler, error) {
	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	if err := metricMiddleware.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("failed to register metrics middleware: %w", err)
	}

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Service.CorsOrigins,
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.UserIDHeader, requestid.Header},
			ExposedHeaders:   []string{requestid.Header},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewServiceHandler(jobService, identity)
	server.HandlerWithOptions(h, server.ChiServerOptions{
		BaseRouter:        router,
		AuthMiddleware:    authenticator.Authenticator,
		SignInMiddlewares: []server.MiddlewareFunc{newSignInLimiter(cfg.Service.Identity.SignInRateLimit)},
	})

	return router, nil
}

// newSignInLimiter caps sign-in attempts per client address and second.
func newSignInLimiter(perSecond float64) server.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	lmt := tollbooth.NewLimiter(perSecond, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"})
	lmt.SetMessageContentType("application/json; charset=utf-8")
	lmt.SetMessage(`{"error":"Too many sign-in attempts"}`)
	return tollbooth.HTTPMiddleware(lmt)
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	identity, err := auth.NewIdentityProvider(s.cfg.Service.Identity)
	if err != nil {
		return fmt.Errorf("failed to create identity provider: %w", err)
	}

	router, err := NewRouter(s.cfg, service.NewJobService(s.store), authenticator, identity)
	if err != nil {
		return err
	}

	srv := http.Server{
		Addr:              s.cfg.Service.Address,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
