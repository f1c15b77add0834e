package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ReportsRanked   prometheus.Histogram
	RankSeconds     prometheus.Histogram
	ReportsCreated  *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	Geocodes        *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	ResourceRequest *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ReportsRanked: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "reports_ranked_count",
			Help:    "Number of reports ranked per list request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		RankSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "reports_rank_duration_seconds",
			Help:    "Time spent ranking reports for a viewer.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		ReportsCreated: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "reports_created_total",
			Help: "Total number of emergency reports created.",
		}, []string{"type"}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "report_cache_lookups_total",
			Help: "Report cache lookups by result.",
		}, []string{"result"}),
		Notifications: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "partner_notifications_total",
			Help: "Partner webhook deliveries by status.",
		}, []string{"status"}),
		Geocodes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_requests_total",
			Help: "Address geocoding attempts by status.",
		}, []string{"status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ResourceRequest: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "resource_requests_total",
			Help: "Resource request operations by kind.",
		}, []string{"op"}),
	}
}
