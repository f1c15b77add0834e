package service

import (
	"context"

	"github.com/google/uuid"

	"rescueRoute/internal/domain"
)

func (s *Service) CreateRequest(ctx context.Context, req domain.CreateResourceRequest) (*domain.ResourceRequest, error) {
	return s.RequestService.Create(ctx, req)
}

func (s *Service) ListRequests(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error) {
	return s.RequestService.List(ctx, order)
}

func (s *Service) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	return s.RequestService.Delete(ctx, id)
}
