package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rescueRoute/internal/api/handlers/http/admin"
	"rescueRoute/internal/api/handlers/http/public"
	"rescueRoute/internal/api/handlers/http/system"
	"rescueRoute/internal/config"
	"rescueRoute/internal/metrics"
	"rescueRoute/internal/middleware"
	"rescueRoute/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

// Deps groups what the HTTP layer needs beyond the services.
type Deps struct {
	Viewer   public.ViewerResolver
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Checks   map[string]system.Check
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc *service.Service, deps Deps) *Server {
	adminHandler := admin.NewHandler(logger, svc, svc)
	publicHandler := public.NewHandler(logger, svc, svc, deps.Viewer)
	systemHandler := system.NewHandler(logger, deps.Checks)

	r := InitRouter(ctx, cfg, adminHandler, publicHandler, systemHandler, deps, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func (s *Server) Handler() http.Handler { return s.router }

func InitRouter(
	ctx context.Context,
	cfg *config.Config,
	adminHandler *admin.Handler,
	publicHandler *public.Handler,
	systemHandler *system.Handler,
	deps Deps,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics.RequestSeconds))
	}

	r.Route("/api", func(api chi.Router) {
		// ADMIN
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			ar.Use(middleware.Limit(ctx, 2, 5, 10*time.Minute, logger))

			ar.Get("/stats", adminHandler.AdminStats)
			ar.Delete("/requests/{id}", adminHandler.AdminRequestDelete)
		})

		// PUBLIC
		api.Group(func(pr chi.Router) {
			pr.Use(middleware.Limit(ctx, 10, 20, 5*time.Minute, logger))

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/", publicHandler.ReportList)
				rr.Post("/", publicHandler.ReportCreate)
			})
			pr.Route("/requests", func(rr chi.Router) {
				rr.Get("/", publicHandler.RequestList)
				rr.Post("/", publicHandler.RequestCreate)
			})
		})

		// SYSTEM
		api.Get("/health", systemHandler.SystemHealth)
		api.Get("/ready", systemHandler.SystemReady)
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
