package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry metrics
	ModelsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hangar_models_total",
			Help: "Registered models by service type",
		},
		[]string{"service_type"},
	)

	SessionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hangar_training_sessions_total",
			Help: "Training sessions by status",
		},
		[]string{"status"},
	)

	// Deployment metrics
	DeploymentsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hangar_deployments_total",
			Help: "Published deployments by service type",
		},
		[]string{"service_type"},
	)

	DeploymentsHealthy = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hangar_deployments_healthy",
			Help: "Deployments whose last health probe succeeded",
		},
	)

	DeploymentSizeMB = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hangar_deployments_size_mb",
			Help: "Total size of all deployment artifacts in megabytes",
		},
	)

	DeploysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangar_deploys_total",
			Help: "Deploy operations by outcome",
		},
		[]string{"outcome"},
	)

	UndeploysTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hangar_undeploys_total",
			Help: "Completed undeploy operations",
		},
	)

	DeployDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hangar_deploy_duration_seconds",
			Help:    "Time taken to publish a deployment in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Health probe metrics
	HealthChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangar_health_checks_total",
			Help: "Health probes by verdict",
		},
		[]string{"verdict"},
	)

	HealthCheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hangar_health_check_duration_seconds",
			Help:    "Health probe duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangar_api_requests_total",
			Help: "API requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hangar_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(ModelsTotal)
	prometheus.MustRegister(SessionsTotal)
	prometheus.MustRegister(DeploymentsTotal)
	prometheus.MustRegister(DeploymentsHealthy)
	prometheus.MustRegister(DeploymentSizeMB)
	prometheus.MustRegister(DeploysTotal)
	prometheus.MustRegister(UndeploysTotal)
	prometheus.MustRegister(DeployDuration)
	prometheus.MustRegister(HealthChecksTotal)
	prometheus.MustRegister(HealthCheckDuration)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
