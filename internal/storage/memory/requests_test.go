package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

func TestRequestStore_CreateListDelete(t *testing.T) {
	t.Parallel()
	s := NewRequestStore()
	ctx := t.Context()

	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var ids []uuid.UUID
	for _, name := range []string{"first", "second", "third"} {
		r := &domain.ResourceRequest{Name: name, Phone: "1", Type: "food"}
		require.NoError(t, s.Create(ctx, r))
		require.NotEqual(t, uuid.Nil, r.ID)
		ids = append(ids, r.ID)
	}

	desc, err := s.List(ctx, domain.SortDesc)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, []string{"third", "second", "first"}, names(desc))

	asc, err := s.List(ctx, domain.SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, names(asc))

	def, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, names(desc), names(def))

	require.NoError(t, s.Delete(ctx, ids[1]))
	require.ErrorIs(t, s.Delete(ctx, ids[1]), e.ErrNotFound)

	left, err := s.List(ctx, domain.SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third"}, names(left))
}

func TestRequestStore_ListReturnsCopy(t *testing.T) {
	t.Parallel()
	s := NewRequestStore()
	require.NoError(t, s.Create(t.Context(), &domain.ResourceRequest{Name: "a"}))

	got, err := s.List(t.Context(), domain.SortDesc)
	require.NoError(t, err)
	got[0].Name = "mutated"

	again, err := s.List(t.Context(), domain.SortDesc)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Name)
}

func TestRequestStore_Errors(t *testing.T) {
	t.Parallel()
	s := NewRequestStore()

	require.ErrorIs(t, s.Create(t.Context(), nil), e.ErrInvalidInput)

	id := uuid.New()
	require.NoError(t, s.Create(t.Context(), &domain.ResourceRequest{ID: id}))
	require.ErrorIs(t, s.Create(t.Context(), &domain.ResourceRequest{ID: id}), e.ErrUniqueViolation)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := s.List(ctx, domain.SortAsc)
	require.ErrorIs(t, err, e.ErrCanceled)
}

func TestRequestStore_Concurrent(t *testing.T) {
	t.Parallel()
	s := NewRequestStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Create(context.Background(), &domain.ResourceRequest{Name: "x"})
			_, _ = s.List(context.Background(), domain.SortDesc)
		}()
	}
	wg.Wait()

	all, err := s.List(t.Context(), domain.SortDesc)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func names(rs []domain.ResourceRequest) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}
