package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation Prometheus metrics.
var (
	PriorInitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobrec",
			Name:      "prior_inits_total",
			Help:      "Prior (re)initializations by cause",
		},
		[]string{"reason"}, // "register" / "profile_update" / "reset" / "fallback"
	)

	PosteriorUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobrec",
			Name:      "posterior_updates_total",
			Help:      "Posterior updates after an application",
		},
		[]string{"result"}, // "ok" / "reinit" / "error"
	)

	MaintenanceUsersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobrec",
			Name:      "prior_maintenance_users_total",
			Help:      "Per-user prior updates triggered by catalog changes",
		},
		[]string{"event", "result"},
	)

	MaintenanceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobrec",
			Name:      "prior_maintenance_duration_seconds",
			Help:      "Time to propagate one catalog change to every prior",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"event"},
	)

	RecommendationsServed = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobrec",
			Name:      "recommendations_served",
			Help:      "Number of jobs returned per recommendation request",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

var recMetricsRegistered bool

// RegisterRecommendationMetrics registers recommendation metrics. Must be called once from main.
func RegisterRecommendationMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(PriorInitsTotal)
	prometheus.MustRegister(PosteriorUpdatesTotal)
	prometheus.MustRegister(MaintenanceUsersTotal)
	prometheus.MustRegister(MaintenanceDuration)
	prometheus.MustRegister(RecommendationsServed)
	recMetricsRegistered = true
}
