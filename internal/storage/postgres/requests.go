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

type RequestRepo struct {
	db     DB
	logger *slog.Logger
}

func NewRequests(db DB, logger *slog.Logger) *RequestRepo {
	return &RequestRepo{db: db, logger: logger}
}

func (p *RequestRepo) Create(ctx context.Context, req *domain.ResourceRequest) error {
	const op = "postgres.ResourceRequest.Create"

	if req == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}

	const query = `
		INSERT INTO resource_requests (id, name, phone, type, location, info,
			geolocation, upi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	_, err := p.db.Exec(ctx, query,
		req.ID,
		req.Name,
		req.Phone,
		req.Type,
		req.Location,
		req.Info,
		req.Geolocation,
		req.UPI,
		req.Timestamp,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

const (
	listRequestsDesc = `
		SELECT id, name, phone, type, location, info, geolocation, upi, created_at
		FROM resource_requests
		ORDER BY created_at DESC, id
	`
	listRequestsAsc = `
		SELECT id, name, phone, type, location, info, geolocation, upi, created_at
		FROM resource_requests
		ORDER BY created_at ASC, id
	`
)

func (p *RequestRepo) List(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error) {
	const op = "postgres.ResourceRequest.List"

	query := listRequestsDesc
	if order == domain.SortAsc {
		query = listRequestsAsc
	}

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.ResourceRequest, 0, 16)
	for rows.Next() {
		var r domain.ResourceRequest
		if err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Phone,
			&r.Type,
			&r.Location,
			&r.Info,
			&r.Geolocation,
			&r.UPI,
			&r.Timestamp,
		); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		r.Timestamp = r.Timestamp.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return out, nil
}

func (p *RequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.ResourceRequest.Delete"

	cmd, err := p.db.Exec(ctx, `DELETE FROM resource_requests WHERE id = $1`, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}
