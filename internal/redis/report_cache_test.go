package redis_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/redis"
)

func setFresh(t *testing.T, cache *redis.ReportCache, reports []domain.Report) {
	t.Helper()
	gen, err := cache.Generation(t.Context())
	require.NoError(t, err)
	stored, err := cache.Set(t.Context(), reports, time.Minute, gen)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestReportCache_MissThenHit(t *testing.T) {
	r, mr := newTestRedis(t)
	cache := redis.NewReportCache(r)
	ctx := t.Context()

	got, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	ts := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	reports := []domain.Report{
		{
			ID:         uuid.New(),
			Title:      "Cardiac arrest",
			ReportType: domain.ReportMedical,
			Location:   &domain.Coordinate{Lat: 28.7041, Lng: 77.1025},
			Timestamp:  ts,
		},
		{ID: uuid.New(), Title: "Theft", ReportType: domain.ReportPolice, Address: "Park Street", Timestamp: ts},
	}
	setFresh(t, cache, reports)
	assert.Equal(t, time.Minute, mr.TTL("reports:all"))

	got, found, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, reports, got)
}

func TestReportCache_EmptyListIsAHit(t *testing.T) {
	r, _ := newTestRedis(t)
	cache := redis.NewReportCache(r)

	setFresh(t, cache, nil)

	got, found, err := cache.Get(t.Context())
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReportCache_ExpiresAndInvalidates(t *testing.T) {
	r, mr := newTestRedis(t)
	cache := redis.NewReportCache(r)
	ctx := t.Context()

	setFresh(t, cache, []domain.Report{{Title: "x"}})
	mr.FastForward(2 * time.Minute)

	_, found, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	setFresh(t, cache, []domain.Report{{Title: "y"}})
	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists("reports:all"))
}

func TestReportCache_CorruptPayload(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, mr.Set("reports:all", "{not json"))

	_, found, err := redis.NewReportCache(r).Get(t.Context())
	require.Error(t, err)
	assert.False(t, found)
}

func TestReportCache_ServerDown(t *testing.T) {
	r, mr := newTestRedis(t)
	mr.Close()

	_, _, err := redis.NewReportCache(r).Get(t.Context())
	require.Error(t, err)
}

func TestReportCache_StaleSetAfterInvalidateIsSkipped(t *testing.T) {
	r, mr := newTestRedis(t)
	cache := redis.NewReportCache(r)
	ctx := t.Context()

	// a reader loads the list under the current generation...
	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	staleList := []domain.Report{{ID: uuid.New(), Title: "before insert"}}

	// ...a writer inserts and invalidates before the reader writes back
	require.NoError(t, cache.Invalidate(ctx))

	stored, err := cache.Set(ctx, staleList, time.Minute, gen)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("reports:all"))

	// a reader starting after the invalidate fills the cache normally
	setFresh(t, cache, []domain.Report{{Title: "after insert"}})
	got, found, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "after insert", got[0].Title)
}

func TestReportCache_InvalidateBumpsGeneration(t *testing.T) {
	r, _ := newTestRedis(t)
	cache := redis.NewReportCache(r)
	ctx := t.Context()

	g0, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, g0)

	require.NoError(t, cache.Invalidate(ctx))
	require.NoError(t, cache.Invalidate(ctx))

	g2, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), g2)
}
