package service

import (
	"context"

	"github.com/google/uuid"

	"rescueRoute/internal/domain"
)

func (s *Service) ListReports(ctx context.Context, req domain.ListReportsRequest) ([]domain.RankedReport, error) {
	return s.ReportService.List(ctx, req)
}

func (s *Service) CreateReport(ctx context.Context, req domain.CreateReportRequest) (uuid.UUID, error) {
	return s.ReportService.Create(ctx, req)
}
