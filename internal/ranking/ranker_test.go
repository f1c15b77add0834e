package ranking_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/ranking"
)

var base = time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

func report(title string, at time.Time, loc *domain.Coordinate) domain.Report {
	r := domain.Report{
		ID:         uuid.New(),
		Title:      title,
		ReportType: domain.ReportFire,
		Timestamp:  at,
	}
	if loc != nil {
		c := *loc
		r.Location = &c
	}
	return r
}

func titles(ranked []domain.RankedReport) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Title
	}
	return out
}

func TestRank_NilViewerSortsByTimestamp(t *testing.T) {
	t.Parallel()

	reports := []domain.Report{
		report("old", base, &delhi),
		report("newest", base.Add(2*time.Hour), nil),
		report("middle", base.Add(time.Hour), &chennai),
	}

	ranked := ranking.Rank(nil, reports)

	assert.Equal(t, []string{"newest", "middle", "old"}, titles(ranked))
	for _, r := range ranked {
		assert.Zero(t, r.DistanceKm)
	}
}

func TestRank_RecencyBeatsProximity(t *testing.T) {
	t.Parallel()

	viewer := delhi
	reports := []domain.Report{
		report("near-old", base, &delhi),
		report("far-new", base.Add(time.Minute), &chennai),
	}

	ranked := ranking.Rank(&viewer, reports)

	assert.Equal(t, []string{"far-new", "near-old"}, titles(ranked))
	assert.InDelta(t, 1759, ranked[0].DistanceKm, 5)
	assert.InDelta(t, 0, ranked[1].DistanceKm, 1e-6)
}

func TestRank_EqualTimestampsOrderedByDistance(t *testing.T) {
	t.Parallel()

	viewer := delhi
	reports := []domain.Report{
		report("chennai", base, &chennai),
		report("delhi", base, &delhi),
		report("mumbai", base, &mumbai),
	}

	ranked := ranking.Rank(&viewer, reports)

	assert.Equal(t, []string{"delhi", "mumbai", "chennai"}, titles(ranked))
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].DistanceKm, ranked[i].DistanceKm)
	}
}

func TestRank_MissingLocationMeasuredFromOrigin(t *testing.T) {
	t.Parallel()

	viewer := delhi
	ranked := ranking.Rank(&viewer, []domain.Report{report("nowhere", base, nil)})

	require.Len(t, ranked, 1)
	assert.InDelta(t, ranking.Distance(delhi, domain.Coordinate{}), ranked[0].DistanceKm, 1e-9)
	assert.InDelta(t, 8761, ranked[0].DistanceKm, 5)
}

func TestRank_NilViewerIgnoresLocation(t *testing.T) {
	t.Parallel()

	withLoc := []domain.Report{
		report("a", base.Add(time.Hour), &chennai),
		report("b", base, &delhi),
	}
	withoutLoc := []domain.Report{
		report("a", base.Add(time.Hour), nil),
		report("b", base, nil),
	}

	assert.Equal(t, titles(ranking.Rank(nil, withLoc)), titles(ranking.Rank(nil, withoutLoc)))
}

func TestRank_Empty(t *testing.T) {
	t.Parallel()

	viewer := chennai
	assert.Empty(t, ranking.Rank(nil, nil))
	got := ranking.Rank(&viewer, []domain.Report{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_Idempotent(t *testing.T) {
	t.Parallel()

	viewer := mumbai
	reports := []domain.Report{
		report("a", base, &chennai),
		report("b", base, &delhi),
		report("c", base.Add(time.Second), nil),
		report("d", base, nil),
	}

	first := ranking.Rank(&viewer, reports)
	second := ranking.Rank(&viewer, reports)

	assert.Equal(t, first, second)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	viewer := delhi
	reports := []domain.Report{
		report("old", base, &chennai),
		report("new", base.Add(time.Hour), &delhi),
	}
	snapshot := make([]domain.Report, len(reports))
	copy(snapshot, reports)

	_ = ranking.Rank(&viewer, reports)

	assert.Equal(t, snapshot, reports)
}

func TestRank_EqualKeysKeepInputOrder(t *testing.T) {
	t.Parallel()

	reports := []domain.Report{
		report("first", base, nil),
		report("second", base, nil),
		report("third", base, nil),
	}

	assert.Equal(t, []string{"first", "second", "third"}, titles(ranking.Rank(nil, reports)))
}

func TestRankBy_Proximity(t *testing.T) {
	t.Parallel()

	viewer := delhi
	reports := []domain.Report{
		report("unlocated-new", base.Add(3*time.Hour), nil),
		report("chennai-new", base.Add(2*time.Hour), &chennai),
		report("delhi-old", base, &delhi),
		report("mumbai", base.Add(time.Hour), &mumbai),
	}

	ranked := ranking.RankBy(domain.OrderProximity, &viewer, reports)

	assert.Equal(t, []string{"delhi-old", "mumbai", "chennai-new", "unlocated-new"}, titles(ranked))
}

func TestRankBy_ProximityTieBreaksByRecency(t *testing.T) {
	t.Parallel()

	viewer := delhi
	reports := []domain.Report{
		report("older", base, &mumbai),
		report("newer", base.Add(time.Hour), &mumbai),
	}

	assert.Equal(t, []string{"newer", "older"}, titles(ranking.RankBy(domain.OrderProximity, &viewer, reports)))
}

func TestRankBy_FallsBackToRecency(t *testing.T) {
	t.Parallel()

	viewer := delhi
	reports := []domain.Report{
		report("near-old", base, &delhi),
		report("far-new", base.Add(time.Hour), &chennai),
	}

	assert.Equal(t, titles(ranking.Rank(nil, reports)), titles(ranking.RankBy(domain.OrderProximity, nil, reports)))
	assert.Equal(t, titles(ranking.Rank(&viewer, reports)), titles(ranking.RankBy(domain.OrderRecency, &viewer, reports)))
	assert.Equal(t, titles(ranking.Rank(&viewer, reports)), titles(ranking.RankBy("", &viewer, reports)))
}

func TestRank_OutputLocationIsACopy(t *testing.T) {
	t.Parallel()

	viewer := domain.Coordinate{Lat: 13.0827, Lng: 80.2707}
	in := []domain.Report{report("a", base, &domain.Coordinate{Lat: 28.6, Lng: 77.2})}

	for _, v := range []*domain.Coordinate{nil, &viewer} {
		out := ranking.Rank(v, in)
		require.Len(t, out, 1)
		require.NotNil(t, out[0].Location)
		assert.NotSame(t, in[0].Location, out[0].Location)

		out[0].Location.Lat = 0
		assert.Equal(t, 28.6, in[0].Location.Lat)
	}
}
