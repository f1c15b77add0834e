package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"rescueRoute/internal/api"
	"rescueRoute/internal/api/handlers/http/system"
	"rescueRoute/internal/config"
	"rescueRoute/internal/geo"
	"rescueRoute/internal/metrics"
	"rescueRoute/internal/redis"
	"rescueRoute/internal/service"
	"rescueRoute/internal/storage/mongodb"
	"rescueRoute/internal/storage/postgres"
	"rescueRoute/internal/workers"
	"rescueRoute/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Mongo      *mongodb.Mongo
	Redis      *redis.Redis
	NotifyQ    *redis.NotifyQueue
	Notifier   *service.PartnerNotifier
	Refresher  *workers.CacheRefresher
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	c := &Components{logger: logger}

	var (
		reports  service.ReportRepository
		requests service.RequestRepository
		checks   = map[string]system.Check{}
	)

	switch cfg.Storage.Driver {
	case config.StorageMongo:
		logger.Info("Initializing Mongo")
		m, err := mongodb.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to init mongo", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init mongo: %w", err)
		}
		c.Mongo = m
		reports = m.Reports
		requests = m.Requests
		checks["storage"] = func(ctx context.Context) error { return m.Client.Ping(ctx, nil) }
	default:
		logger.Info("Initializing Postgres")
		pg, err := postgres.NewPostgres(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to init postgres", slog.Any("error", err))
			return nil, fmt.Errorf("failed to init postgres: %w", err)
		}
		c.Postgres = pg
		reports = pg.ReportStore()
		requests = pg.RequestStore()
		checks["storage"] = pg.Pool.Ping
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		c.ShutdownAll()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}
	c.Redis = redisClient
	checks["redis"] = func(ctx context.Context) error { return redisClient.Client.Ping(ctx).Err() }

	cache := redis.NewReportCache(redisClient)
	c.NotifyQ = redis.NewNotifyQueue(redisClient.Client, "")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	// a nil *GoogleGeocoder must not reach the interfaces as a typed nil
	var (
		reportGeocoder service.Geocoder
		viewerGeocoder geo.Geocoder
	)
	gc, err := geo.NewGoogleGeocoderFromKey(cfg.Geocoder.APIKey, cfg.Geocoder.RateLimit, logger)
	if err != nil {
		logger.Warn("geocoder disabled", slog.Any("error", err))
	} else if gc != nil {
		reportGeocoder, viewerGeocoder = gc, gc
	}

	reportSvc := service.NewReportService(reports, cache, c.NotifyQ, reportGeocoder, m, logger, cfg.Cache.TTL)
	requestSvc := service.NewRequestService(requests, m, logger)
	statsSvc := service.NewStatsService(reports)

	svc := service.NewService(reportSvc, requestSvc, statsSvc)

	c.HttpServer = api.NewServer(ctx, cfg, logger, svc, api.Deps{
		Viewer:   geo.NewResolver(viewerGeocoder, logger),
		Metrics:  m,
		Gatherer: reg,
		Checks:   checks,
	})
	c.Notifier = service.NewPartnerNotifier(logger, cfg.Webhook, c.NotifyQ, m)
	c.Refresher = workers.NewCacheRefresher(reports, cache, cfg.Cache.RefreshInterval, cfg.Cache.TTL, logger)

	logger.Info("Initialized server",
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("geocoder", reportGeocoder != nil))

	return c, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Components shutdown started")

	if c.Postgres != nil {
		c.Postgres.Pool.Close()
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.Mongo.Disconnect(ctx); err != nil {
			c.logger.Error("Mongo disconnect failed", slog.String("err", err.Error()))
		}
		cancel()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
