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

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api/handlers/http/admin"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api/handlers/http/checkin"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api/handlers/http/system"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/config"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/middleware"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc *service.Service, health map[string]system.Pinger) *Server {
	adminHandler := admin.NewHandler(logger, svc.SiteService, svc.StatsService, svc.ReportService)
	checkInHandler := checkin.NewHandler(logger, svc.CheckIn)
	systemHandler := system.NewHandler(logger, health)

	r := InitRouter(ctx, cfg, adminHandler, checkInHandler, systemHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(ctx context.Context, cfg *config.Config, adminHandler *admin.Handler, checkInHandler *checkin.Handler, systemHandler *system.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		// ADMIN
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(middleware.APIKeyMiddleware(cfg.APIKey))
			ar.Use(middleware.Limit(ctx, 2, 5, 10*time.Minute, logger))

			ar.Get("/stats", adminHandler.AdminStats)
			ar.Get("/checkins/export", adminHandler.ExportCheckIns)

			ar.Route("/sites", func(sr chi.Router) {
				sr.Post("/", adminHandler.SiteCreate)
				sr.Get("/", adminHandler.SiteList)

				sr.Route("/{id}", func(rr chi.Router) {
					rr.Get("/", adminHandler.SiteGet)
					rr.Put("/", adminHandler.SiteUpdate)
					rr.Delete("/", adminHandler.SiteDelete)
				})
			})
		})

		// EMPLOYEE
		api.Route("/checkin", func(cr chi.Router) {
			cr.Use(middleware.EmployeeAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
			cr.Use(middleware.Limit(ctx, 10, 20, 5*time.Minute, logger))

			cr.Post("/qr", middleware.BindJSON(checkInHandler.QRCheckIn))
			cr.Post("/manual", middleware.BindJSON(checkInHandler.ManualCheckIn))
			cr.Get("/permissions", checkInHandler.GetPermissions)
			cr.Put("/permissions", middleware.BindJSON(checkInHandler.PutPermissions))
			cr.Get("/state", checkInHandler.GetState)
			cr.Post("/retry", checkInHandler.Retry)
			cr.Post("/method", middleware.BindJSON(checkInHandler.SwitchMethod))
			cr.Get("/today", checkInHandler.Today)
		})

		// SYSTEM
		api.Get("/health", systemHandler.SystemHealth)
	})

	return r
}

func (s *Server) Handler() http.Handler { return s.router }

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
