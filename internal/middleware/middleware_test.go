package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	h := APIKeyMiddleware("secret")(okHandler())

	cases := []struct {
		name string
		key  string
		want int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusUnauthorized},
		{"valid", "secret", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tc.key != "" {
				req.Header.Set(APIKeyHeader, tc.key)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestAPIKeyMiddleware_EmptyConfiguredKeyRejects(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	APIKeyMiddleware("")(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLimit_BlocksAfterBurst(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := Limit(ctx, 1, 2, time.Minute, testLogger())(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLimit_BadRemoteAddr(t *testing.T) {
	t.Parallel()

	l := newRateLimiter(1, 1, time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "garbage"
	rr := httptest.NewRecorder()

	l.LimitMiddleware(testLogger())(okHandler()).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRateLimiter_Sweep(t *testing.T) {
	t.Parallel()

	l := newRateLimiter(1, 1, time.Minute)
	l.getVisitor("10.0.0.1")
	l.getVisitor("10.0.0.2")
	l.visitors["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Minute)

	l.sweep(time.Now())

	require.Len(t, l.visitors, 1)
	_, ok := l.visitors["10.0.0.2"]
	assert.True(t, ok)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	t.Parallel()

	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_http_seconds"},
		[]string{"method", "route", "status"})

	r := chi.NewRouter()
	r.Use(Metrics(hist))
	r.Delete("/api/admin/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/requests/abc", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(hist))

	reg := prometheus.NewRegistry()
	reg.MustRegister(hist)
	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 1)
	require.Len(t, mfs[0].GetMetric(), 1)

	labels := map[string]string{}
	for _, lp := range mfs[0].GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, "/api/admin/requests/{id}", labels["route"])
	assert.Equal(t, "204", labels["status"])
	assert.Equal(t, uint64(1), mfs[0].GetMetric()[0].GetHistogram().GetSampleCount())
}
