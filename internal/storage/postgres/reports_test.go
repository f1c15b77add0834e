package postgres_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescueRoute/internal/domain"
	"rescueRoute/internal/storage/postgres"
	"rescueRoute/pkg/e"
)

var reportColumns = []string{
	"id", "title", "description", "report_type", "media_url",
	"live_location_link", "lat", "lng", "address", "reported_at",
}

func f64ptr(v float64) *float64 { return &v }

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestReportRepo_Create(t *testing.T) {
	t.Parallel()
	logger := slog.Default()

	t.Run("success - sets id and timestamp, stores coordinate", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewReports(mock, logger)
		report := &domain.Report{
			Title:       "Building fire",
			Description: "Smoke on the 3rd floor",
			ReportType:  domain.ReportFire,
			Location:    &domain.Coordinate{Lat: 13.0827, Lng: 80.2707},
			Address:     "Anna Salai, Chennai",
		}

		mock.ExpectExec(`INSERT INTO reports`).
			WithArgs(pgxmock.AnyArg(), "Building fire", "Smoke on the 3rd floor", "fire", "", "",
				f64ptr(13.0827), f64ptr(80.2707), "Anna Salai, Chennai", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(t.Context(), report))
		assert.NotEqual(t, uuid.Nil, report.ID)
		assert.False(t, report.Timestamp.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - no location writes NULL coordinates", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewReports(mock, logger)
		id := uuid.New()
		ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		report := &domain.Report{
			ID:          id,
			Title:       "Pileup",
			Description: "Highway",
			ReportType:  domain.ReportAccident,
			Timestamp:   ts,
		}

		mock.ExpectExec(`INSERT INTO reports`).
			WithArgs(id, "Pileup", "Highway", "accident", "", "", (*float64)(nil), (*float64)(nil), "", ts).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Create(t.Context(), report))
		assert.Equal(t, id, report.ID)
		assert.Equal(t, ts, report.Timestamp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - nil report", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		err = postgres.NewReports(mock, logger).Create(t.Context(), nil)
		require.ErrorIs(t, err, e.ErrInvalidInput)
	})

	t.Run("error - exec failure is wrapped", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO reports`).WithArgs(anyArgs(10)...).WillReturnError(assert.AnError)

		err = postgres.NewReports(mock, logger).Create(t.Context(), &domain.Report{Title: "x"})
		require.ErrorIs(t, err, e.ErrInternal)
		require.ErrorContains(t, err, "postgres.Report.Create")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReportRepo_List(t *testing.T) {
	t.Parallel()
	logger := slog.Default()

	t.Run("success - maps nullable coordinates", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		located, unlocated := uuid.New(), uuid.New()
		newer := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		older := newer.Add(-time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM reports ORDER BY reported_at DESC`).
			WillReturnRows(pgxmock.NewRows(reportColumns).
				AddRow(located, "Fire", "desc", "fire", "", "", f64ptr(13.0), f64ptr(80.0), "", newer).
				AddRow(unlocated, "Robbery", "desc", "police", "https://img", "", nil, nil, "MG Road", older))

		reports, err := postgres.NewReports(mock, logger).List(t.Context())
		require.NoError(t, err)
		require.Len(t, reports, 2)

		assert.Equal(t, located, reports[0].ID)
		assert.Equal(t, domain.ReportFire, reports[0].ReportType)
		require.NotNil(t, reports[0].Location)
		assert.Equal(t, domain.Coordinate{Lat: 13.0, Lng: 80.0}, *reports[0].Location)

		assert.Equal(t, unlocated, reports[1].ID)
		assert.Nil(t, reports[1].Location)
		assert.Equal(t, "MG Road", reports[1].Address)
		assert.Equal(t, "https://img", reports[1].MediaURL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - empty table gives empty slice", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM reports`).WillReturnRows(pgxmock.NewRows(reportColumns))

		reports, err := postgres.NewReports(mock, logger).List(t.Context())
		require.NoError(t, err)
		assert.NotNil(t, reports)
		assert.Empty(t, reports)
	})

	t.Run("error - query failure", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM reports`).WillReturnError(assert.AnError)

		reports, err := postgres.NewReports(mock, logger).List(t.Context())
		require.Nil(t, reports)
		require.ErrorIs(t, err, e.ErrInternal)
	})

	t.Run("error - scan failure", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT (.+) FROM reports`).
			WillReturnRows(pgxmock.NewRows(reportColumns).
				AddRow("not-a-uuid", "t", "d", "fire", "", "", nil, nil, "", time.Now()))

		reports, err := postgres.NewReports(mock, logger).List(t.Context())
		require.Nil(t, reports)
		require.Error(t, err)
	})
}

func TestReportRepo_CountByType(t *testing.T) {
	t.Parallel()
	logger := slog.Default()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT report_type, COUNT\(\*\)`).
			WithArgs(60).
			WillReturnRows(pgxmock.NewRows([]string{"report_type", "count"}).
				AddRow("fire", int64(3)).
				AddRow("medical", int64(1)))

		counts, err := postgres.NewReports(mock, logger).CountByType(t.Context(), 60)
		require.NoError(t, err)
		assert.Equal(t, map[domain.ReportType]int64{
			domain.ReportFire:    3,
			domain.ReportMedical: 1,
		}, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - window out of range", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := postgres.NewReports(mock, logger)
		for _, minutes := range []int{0, -5, 1441} {
			_, err := repo.CountByType(t.Context(), minutes)
			require.ErrorIs(t, err, e.ErrInvalidInput)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - deadline", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT report_type`).WithArgs(5).WillReturnError(context.DeadlineExceeded)

		_, err = postgres.NewReports(mock, logger).CountByType(t.Context(), 5)
		require.ErrorIs(t, err, e.ErrDeadline)
	})
}
