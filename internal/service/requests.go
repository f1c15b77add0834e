package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/metrics"
	"rescueRoute/pkg/e"
	"rescueRoute/pkg/validator"
)

type requestService struct {
	repo    RequestRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRequestService(repo RequestRepository, m *metrics.Metrics, logger *slog.Logger) RequestService {
	return &requestService{repo: repo, metrics: m, logger: logger}
}

func (s *requestService) Create(ctx context.Context, req domain.CreateResourceRequest) (*domain.ResourceRequest, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", e.ErrInvalidInput, err.Error())
	}

	r := &domain.ResourceRequest{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Type:        strings.TrimSpace(req.Type),
		Location:    req.Location,
		Info:        req.Info,
		Geolocation: req.Geolocation,
		UPI:         req.UPI,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("repo.Create failed", slog.Any("error", err))
		return nil, err
	}
	s.metrics.ResourceRequest.WithLabelValues("create").Inc()

	return r, nil
}

func (s *requestService) List(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error) {
	switch order {
	case "":
		order = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
	default:
		return nil, fmt.Errorf("order must be %q or %q: %w", domain.SortAsc, domain.SortDesc, e.ErrInvalidInput)
	}
	return s.repo.List(ctx, order)
}

func (s *requestService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("empty id: %w", e.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.ResourceRequest.WithLabelValues("delete").Inc()
	s.logger.Info("resource request deleted", slog.String("id", id.String()))
	return nil
}
