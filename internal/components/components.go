package components

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/api/handlers/http/system"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/config"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/redis"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/service"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/storage/memory"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/storage/postgres"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/workers"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/logger"
)

type Components struct {
	logger        *slog.Logger
	HttpServer    *api.Server
	Postgres      *postgres.Postgres
	Redis         *redis.Redis
	WebhookSender *service.WebhookSender
	SiteRefresher *workers.SiteRefresher
	logFile       io.Closer
}

// storage is what the services need from whichever backend is configured.
type storage interface {
	service.SiteRepository
	Upsert(ctx context.Context, site *domain.OfficeSite) error
}

type backend struct {
	sites    storage
	checkIns service.CheckInStore
	stats    service.StatsRepository
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{logger: logger}

	be, err := c.initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CheckIn.SitesFile != "" {
		if err := seedSites(ctx, cfg.CheckIn.SitesFile, be.sites, logger); err != nil {
			c.ShutdownAll()
			return nil, err
		}
	}

	var (
		siteCache service.SiteCache
		events    service.EventQueue
	)
	if !cfg.Redis.Disabled {
		logger.Info("Initializing Redis")
		redisClient, err := redis.NewRedis(ctx, cfg, logger)
		if err != nil {
			c.ShutdownAll()
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		c.Redis = redisClient

		cache := redis.NewSiteCache(redisClient.Client)
		queue := redis.NewEventQueue(redisClient.Client, redis.EventQueueKey)
		siteCache = cache
		events = queue

		c.SiteRefresher = workers.NewSiteRefresher(be.sites, cache, cfg.CheckIn.SiteRefreshEvery, cfg.CheckIn.SiteCacheTTL, logger)
		if !cfg.Webhook.Disabled {
			c.WebhookSender = service.NewWebhookSender(logger, cfg.Webhook, queue)
		}
	} else {
		logger.Warn("Redis disabled: no site cache, check-in events are not published")
	}

	loc := cfg.CheckIn.Location()
	siteSvc := service.NewSiteService(be.sites, siteCache, logger)
	statsSvc := service.NewStatsService(be.stats, loc)
	reportSvc := service.NewReportService(be.checkIns, loc, logger)

	submitter := service.NewCheckInSubmitter(be.checkIns, events, loc, logger)
	resolver := service.NewDefaultSiteResolver(cfg.CheckIn.SiteID(), be.sites, siteCache, cfg.CheckIn.SiteCacheTTL, logger)
	flow := service.NewCheckInFlow(submitter, resolver, cfg.CheckIn.LocationTimeout, cfg.CheckIn.StoreTimeout, logger)

	srv := service.NewService(siteSvc, statsSvc, reportSvc, flow)

	c.HttpServer = api.NewServer(ctx, cfg, logger, srv, c.healthChecks())
	logger.Info("Initialized server")

	return c, nil
}

func (c *Components) initStorage(ctx context.Context, cfg *config.Config) (backend, error) {
	if cfg.CheckIn.Storage == config.StorageMemory {
		c.logger.Warn("Using in-memory storage: check-ins are lost on restart")
		store := memory.NewStore()
		return backend{sites: store, checkIns: store, stats: store}, nil
	}

	c.logger.Info("Initializing Postgres")
	pg, err := postgres.NewPostgres(ctx, cfg, c.logger)
	if err != nil {
		c.logger.Error("Failed to init postgres", slog.Any("error", err))
		return backend{}, fmt.Errorf("failed to init postgres: %w", err)
	}
	c.Postgres = pg
	return backend{sites: pg.Site, checkIns: pg.CheckIn, stats: pg.Stat}, nil
}

func (c *Components) healthChecks() map[string]system.Pinger {
	checks := make(map[string]system.Pinger)
	if c.Postgres != nil {
		checks["postgres"] = c.Postgres.Pool
	}
	if c.Redis != nil {
		rdb := c.Redis.Client
		checks["redis"] = system.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return checks
}

func seedSites(ctx context.Context, path string, repo storage, logger *slog.Logger) error {
	seeds, err := config.LoadSites(path)
	if err != nil {
		return err
	}
	for _, s := range seeds {
		site := &domain.OfficeSite{
			ID:           s.ID,
			Name:         s.Name,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			RadiusMeters: s.RadiusMeters,
			QRSecret:     s.QRSecret,
			Status:       domain.SiteActive,
		}
		if err := repo.Upsert(ctx, site); err != nil {
			return fmt.Errorf("seed site %s: %w", s.ID, err)
		}
	}
	logger.Info("Office sites seeded", slog.String("file", path), slog.Int("count", len(seeds)))
	return nil
}

// RunWorkers starts the background workers and blocks until ctx is done and
// all of them have returned.
func (c *Components) RunWorkers(ctx context.Context) {
	var wg sync.WaitGroup
	if c.SiteRefresher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.SiteRefresher.Run(ctx)
		}()
	}
	if c.WebhookSender != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.WebhookSender.Run(ctx)
		}()
	}
	wg.Wait()
}

// SetupLogger builds the process logger. A non-empty cfg.File also writes
// every record to a rotating file.
func SetupLogger(env string, cfg config.LogConfig) (*slog.Logger, io.Closer) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, lj)
		closer = lj
	}

	switch env {
	case "local":
		opts := logger.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
		}
		return slog.New(opts.NewPrettyHandler(out)), closer
	case "dev":
		return slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		), closer
	default:
		return slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		), closer
	}
}

// AttachLogFile makes ShutdownAll close the log sink last.
func (c *Components) AttachLogFile(f io.Closer) { c.logFile = f }

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Component shutdown started")

	var errs []error
	if c.Postgres != nil {
		c.Postgres.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.logger.Error("Component shutdown finished with errors", slog.Any("error", err))
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))

	if c.logFile != nil {
		_ = c.logFile.Close()
	}
}
