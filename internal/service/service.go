package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rescueRoute/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type ReportService interface {
	List(ctx context.Context, req domain.ListReportsRequest) ([]domain.RankedReport, error)
	Create(ctx context.Context, req domain.CreateReportRequest) (uuid.UUID, error)
}

type RequestService interface {
	Create(ctx context.Context, req domain.CreateResourceRequest) (*domain.ResourceRequest, error)
	List(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type StatsService interface {
	GetStats(ctx context.Context, req domain.StatsRequest) (*domain.ReportStats, error)
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

type ReportCache interface {
	Get(ctx context.Context) ([]domain.Report, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, reports []domain.Report, ttl time.Duration, gen int64) (bool, error)
	Invalidate(ctx context.Context) error
}

type NotificationQueue interface {
	Enqueue(ctx context.Context, n domain.ReportNotification) error
}

type NotificationSource interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.ReportNotification, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinate, error)
}

type Service struct {
	ReportService  ReportService
	RequestService RequestService
	StatsService   StatsService
}

func NewService(
	reportService ReportService,
	requestService RequestService,
	statsService StatsService,
) *Service {
	return &Service{
		ReportService:  reportService,
		RequestService: requestService,
		StatsService:   statsService,
	}
}
