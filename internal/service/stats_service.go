package service

import (
	"context"

	"rescueRoute/internal/domain"
)

func (s *Service) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.ReportStats, error) {
	return s.StatsService.GetStats(ctx, req)
}
