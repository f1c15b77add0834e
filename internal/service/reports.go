package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/metrics"
	"rescueRoute/internal/ranking"
	"rescueRoute/pkg/e"
	"rescueRoute/pkg/validator"
)

type reportService struct {
	repo     ReportRepository
	cache    ReportCache
	queue    NotificationQueue
	geocoder Geocoder
	metrics  *metrics.Metrics
	logger   *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewReportService wires the report use cases. geocoder may be nil.
func NewReportService(
	repo ReportRepository,
	cache ReportCache,
	queue NotificationQueue,
	geocoder Geocoder,
	m *metrics.Metrics,
	logger *slog.Logger,
	cacheTTL time.Duration,
) ReportService {
	return &reportService{
		repo:     repo,
		cache:    cache,
		queue:    queue,
		geocoder: geocoder,
		metrics:  m,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) List(ctx context.Context, req domain.ListReportsRequest) ([]domain.RankedReport, error) {
	reports, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if req.Type != "" {
		reports = filterByType(reports, req.Type)
	}

	start := time.Now()
	ranked := ranking.RankBy(req.Order, req.Viewer, reports)
	s.metrics.RankSeconds.Observe(time.Since(start).Seconds())
	s.metrics.ReportsRanked.Observe(float64(len(ranked)))

	s.logger.Debug("reports ranked",
		slog.Int("count", len(ranked)),
		slog.Bool("has_viewer", req.Viewer != nil),
		slog.String("order", string(req.Order)),
	)
	return ranked, nil
}

// load reads through the cache. Cache failures are logged and never fail
// the request. The generation is read before the store so a concurrent
// Create's invalidate wins over this fill.
func (s *reportService) load(ctx context.Context) ([]domain.Report, error) {
	cached, found, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("report cache read failed", slog.Any("error", err))
	case found:
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	fill := err == nil
	var gen int64
	if fill {
		if gen, err = s.cache.Generation(ctx); err != nil {
			s.logger.Warn("report cache generation read failed", slog.Any("error", err))
			fill = false
		}
	}

	reports, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("repo.List failed", slog.Any("error", err))
		return nil, err
	}

	if fill {
		stored, err := s.cache.Set(ctx, reports, s.cacheTTL, gen)
		switch {
		case err != nil:
			s.logger.Warn("report cache fill failed", slog.Any("error", err))
		case !stored:
			s.logger.Debug("report cache fill skipped, list went stale")
		}
	}
	return reports, nil
}

func filterByType(reports []domain.Report, t domain.ReportType) []domain.Report {
	out := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if r.ReportType == t {
			out = append(out, r)
		}
	}
	return out
}

func (s *reportService) Create(ctx context.Context, req domain.CreateReportRequest) (uuid.UUID, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", e.ErrInvalidInput, err.Error())
	}
	reportType := domain.NormalizeReportType(req.ReportType)
	if reportType == "" {
		return uuid.Nil, fmt.Errorf("%w: reportType is blank", e.ErrInvalidInput)
	}

	report := &domain.Report{
		ID:               uuid.New(),
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		ReportType:       reportType,
		MediaURL:         req.MediaURL,
		LiveLocationLink: req.LiveLocationLink,
		Timestamp:        s.now(),
	}
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		report.Timestamp = req.Timestamp.UTC()
	}

	if req.Location != nil {
		loc, err := s.locate(ctx, *req.Location)
		if err != nil {
			return uuid.Nil, err
		}
		report.Location = loc
		report.Address = strings.TrimSpace(req.Location.Address)
	}

	if err := s.repo.Create(ctx, report); err != nil {
		s.logger.Error("repo.Create failed", slog.Any("error", err))
		return uuid.Nil, err
	}
	s.metrics.ReportsCreated.WithLabelValues(string(report.ReportType)).Inc()

	s.logger.Info("report created",
		slog.String("id", report.ID.String()),
		slog.String("type", string(report.ReportType)),
		slog.Bool("located", report.Location != nil),
	)

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("report cache invalidate failed", slog.Any("error", err))
	}

	n := domain.ReportNotification{
		ReportID:   report.ID,
		Title:      report.Title,
		ReportType: report.ReportType,
		Location:   report.Location,
		Address:    report.Address,
		Timestamp:  report.Timestamp,
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.logger.Error("enqueue notification failed", slog.Any("error", err), slog.String("id", report.ID.String()))
	}

	return report.ID, nil
}

// locate returns the report coordinate: the sent lat/lng, else the geocoded
// address, else nil. Geocoding failures keep the report unlocated.
func (s *reportService) locate(ctx context.Context, in domain.LocationInput) (*domain.Coordinate, error) {
	switch {
	case in.Lat != nil && in.Lng != nil:
		c := domain.Coordinate{Lat: *in.Lat, Lng: *in.Lng}
		if err := ranking.Validate(c); err != nil {
			return nil, err
		}
		return &c, nil
	case in.Lat != nil || in.Lng != nil:
		return nil, fmt.Errorf("both lat and lng are required: %w", e.ErrInvalidCoordinates)
	}

	address := strings.TrimSpace(in.Address)
	if address == "" || s.geocoder == nil {
		return nil, nil
	}

	c, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.metrics.Geocodes.WithLabelValues("error").Inc()
		s.logger.Warn("report geocoding failed, storing address only",
			slog.String("address", address),
			slog.Any("error", err),
		)
		return nil, nil
	}
	if err := ranking.Validate(*c); err != nil {
		s.metrics.Geocodes.WithLabelValues("invalid").Inc()
		s.logger.Warn("geocoder returned invalid coordinate", slog.Any("error", err))
		return nil, nil
	}
	s.metrics.Geocodes.WithLabelValues("ok").Inc()
	return c, nil
}
