package service

import (
	"context"
	"fmt"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

const defaultStatsMinutes = 60

type statsService struct {
	repo ReportRepository
}

func NewStatsService(repo ReportRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.ReportStats, error) {
	minutes := req.Minutes
	if minutes == 0 {
		minutes = defaultStatsMinutes
	}
	if minutes < 1 || minutes > 1440 {
		return nil, fmt.Errorf("minutes must be within 1..1440: %w", e.ErrInvalidInput)
	}

	byType, err := s.repo.CountByType(ctx, minutes)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byType {
		total += n
	}
	return &domain.ReportStats{Minutes: minutes, Total: total, ByType: byType}, nil
}
