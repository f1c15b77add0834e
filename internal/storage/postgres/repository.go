package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"rescueRoute/internal/domain"
)

// DB is the subset of *pgxpool.Pool the repositories need.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	List(ctx context.Context) ([]domain.Report, error)
	CountByType(ctx context.Context, minutes int) (map[domain.ReportType]int64, error)
}

type RequestRepository interface {
	Create(ctx context.Context, req *domain.ResourceRequest) error
	List(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func (p *Postgres) ReportStore() ReportRepository   { return p.Reports }
func (p *Postgres) RequestStore() RequestRepository { return p.Requests }
