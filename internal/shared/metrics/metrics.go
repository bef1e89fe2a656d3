package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed by Handler.
var Registry = prometheus.NewRegistry()

var (
	dashboardLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_loads_total",
			Help: "Dashboard loads by outcome (started, completed, failed, joined, skipped, stale)",
		},
		[]string{"outcome"},
	)

	dashboardLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_load_duration_ms",
			Help:    "Dashboard load duration in milliseconds",
			Buckets: []float64{5, 25, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		},
	)

	extractions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_extractions_total",
			Help: "Document text extractions by format and result",
		},
		[]string{"format", "result"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_active_sessions",
			Help: "Dashboard sessions currently held in memory",
		},
	)
)

func init() {
	Registry.MustRegister(dashboardLoads, dashboardLoadDuration, extractions, activeSessions)
}

// Load outcomes.
const (
	LoadStarted   = "started"
	LoadCompleted = "completed"
	LoadFailed    = "failed"
	LoadJoined    = "joined"
	LoadSkipped   = "skipped"
	LoadStale     = "stale"
)

// IncDashboardLoad increments the load counter for the given outcome.
func IncDashboardLoad(outcome string) {
	dashboardLoads.WithLabelValues(outcome).Inc()
}

// ObserveDashboardLoad records a load duration.
func ObserveDashboardLoad(d time.Duration) {
	if d < 0 {
		d = 0
	}
	dashboardLoadDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

// IncExtraction counts a text extraction attempt.
func IncExtraction(format, result string) {
	if format == "" {
		format = "unknown"
	}
	extractions.WithLabelValues(format, result).Inc()
}

// SetActiveSessions reports the number of in-memory dashboard sessions.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
