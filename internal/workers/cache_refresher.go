package workers

import (
	"context"
	"log/slog"
	"time"

	"rescueRoute/internal/domain"
)

type ReportLister interface {
	List(ctx context.Context) ([]domain.Report, error)
}

type ReportCacheWriter interface {
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, reports []domain.Report, ttl time.Duration, gen int64) (bool, error)
}

// CacheRefresher keeps the ranked-list cache warm so list requests rarely
// reach the database.
type CacheRefresher struct {
	reports  ReportLister
	cache    ReportCacheWriter
	interval time.Duration
	ttl      time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewCacheRefresher(reports ReportLister, cache ReportCacheWriter, interval, ttl time.Duration, logger *slog.Logger) *CacheRefresher {
	return &CacheRefresher{
		reports:  reports,
		cache:    cache,
		interval: interval,
		ttl:      ttl,
		timeout:  5 * time.Second,
		logger:   logger,
	}
}

func (w *CacheRefresher) Run(ctx context.Context) {
	const op = "workers.CacheRefresher.Run"
	log := w.logger.With(slog.String("op", op))

	log.Info("cache refresher STARTED", slog.Duration("interval", w.interval))

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("cache refresher STOPPED")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *CacheRefresher) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	gen, err := w.cache.Generation(ctx)
	if err != nil {
		w.logger.Warn("refresh: cache generation failed", slog.Any("error", err))
		return
	}
	reports, err := w.reports.List(ctx)
	if err != nil {
		w.logger.Warn("refresh: list reports failed", slog.Any("error", err))
		return
	}
	stored, err := w.cache.Set(ctx, reports, w.ttl, gen)
	if err != nil {
		w.logger.Warn("refresh: cache set failed", slog.Any("error", err))
		return
	}
	if !stored {
		w.logger.Debug("refresh skipped, reports changed while loading")
		return
	}
	w.logger.Debug("report cache refreshed", slog.Int("count", len(reports)))
}
