// Package memory keeps resource requests in process memory. Service tests use
// it where a mocked repository would hide ordering and not-found behaviour.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

type RequestStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.ResourceRequest
	now   func() time.Time
}

func NewRequestStore() *RequestStore {
	return &RequestStore{
		items: make(map[uuid.UUID]domain.ResourceRequest),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *RequestStore) Create(ctx context.Context, req *domain.ResourceRequest) error {
	const op = "memory.ResourceRequest.Create"

	if req == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if _, ok := s.items[req.ID]; ok {
		return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = s.now()
	}
	s.items[req.ID] = *req
	return nil
}

// List returns a copy sorted by timestamp; equal timestamps fall back to id so
// the order is stable across calls.
func (s *RequestStore) List(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.WrapError(ctx, "memory.ResourceRequest.List", err)
	}

	s.mu.RLock()
	out := make([]domain.ResourceRequest, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.ResourceRequest) int {
		c := a.Timestamp.Compare(b.Timestamp)
		if order != domain.SortAsc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (s *RequestStore) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "memory.ResourceRequest.Delete"

	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}
