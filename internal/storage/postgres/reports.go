package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

type ReportRepo struct {
	db     DB
	logger *slog.Logger
}

func NewReports(db DB, logger *slog.Logger) *ReportRepo {
	return &ReportRepo{db: db, logger: logger}
}

func (p *ReportRepo) Create(ctx context.Context, report *domain.Report) error {
	const op = "postgres.Report.Create"

	if report == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		INSERT INTO reports (id, title, description, report_type, media_url,
			live_location_link, lat, lng, address, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now().UTC()
	}

	var lat, lng *float64
	if report.Location != nil {
		lat, lng = &report.Location.Lat, &report.Location.Lng
	}

	_, err := p.db.Exec(ctx, query,
		report.ID,
		report.Title,
		report.Description,
		string(report.ReportType),
		report.MediaURL,
		report.LiveLocationLink,
		lat,
		lng,
		report.Address,
		report.Timestamp,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("id", report.ID.String()),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// List returns every report, newest first. Callers rank the result
// themselves; the store order only keeps pages and caches predictable.
func (p *ReportRepo) List(ctx context.Context) ([]domain.Report, error) {
	const op = "postgres.Report.List"

	const query = `
		SELECT id, title, description, report_type, media_url,
			   live_location_link, lat, lng, address, reported_at
		FROM reports
		ORDER BY reported_at DESC, id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	reports := make([]domain.Report, 0, 32)
	for rows.Next() {
		var (
			r        domain.Report
			lat, lng *float64
		)
		if err := rows.Scan(
			&r.ID,
			&r.Title,
			&r.Description,
			&r.ReportType,
			&r.MediaURL,
			&r.LiveLocationLink,
			&lat,
			&lng,
			&r.Address,
			&r.Timestamp,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		if lat != nil && lng != nil {
			r.Location = &domain.Coordinate{Lat: *lat, Lng: *lng}
		}
		r.Timestamp = r.Timestamp.UTC()
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return reports, nil
}

func (p *ReportRepo) CountByType(ctx context.Context, minutes int) (map[domain.ReportType]int64, error) {
	const op = "postgres.Report.CountByType"

	if minutes <= 0 || minutes > 1440 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		SELECT report_type, COUNT(*)
		FROM reports
		WHERE reported_at >= NOW() - ($1 * INTERVAL '1 minute')
		GROUP BY report_type
	`

	rows, err := p.db.Query(ctx, query, minutes)
	if err != nil {
		p.logger.Error("db query failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.Int("minutes", minutes),
		)
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	counts := make(map[domain.ReportType]int64)
	for rows.Next() {
		var (
			t   domain.ReportType
			cnt int64
		)
		if err := rows.Scan(&t, &cnt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		counts[t] = cnt
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return counts, nil
}
