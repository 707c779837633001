/*
Package metrics provides Prometheus metrics for hangar.

All metrics are registered in init() against the default registry and
exported as package-level variables, so any component can record
without wiring. The API server exposes them on GET /metrics via the
standard promhttp handler.

# Metric Catalog

Registry gauges (refreshed by the manager's MetricsCollector):

	hangar_models_total{service_type}          registered models
	hangar_training_sessions_total{status}     training sessions by status
	hangar_deployments_total{service_type}     published deployments
	hangar_deployments_healthy                 deployments with a healthy verdict
	hangar_deployments_size_mb                 total artifact size on disk

Operation counters and histograms (recorded inline):

	hangar_deploys_total{outcome}           deploy attempts by success/failure
	hangar_undeploys_total                  undeploy operations
	hangar_deploy_duration_seconds          deploy latency
	hangar_health_checks_total{verdict}     probes by verdict
	hangar_health_check_duration_seconds    probe latency

API middleware:

	hangar_api_requests_total{method,path,status}
	hangar_api_request_duration_seconds{method,path}

Paths are labeled by registered route pattern, not raw URL, to keep
label cardinality bounded.

# Usage

	metrics.DeploysTotal.WithLabelValues("success").Inc()
	metrics.DeployDuration.Observe(time.Since(start).Seconds())

	http.Handle("/metrics", metrics.Handler())

# See Also

  - pkg/manager for the collector refreshing the gauges
  - pkg/api for the /metrics route and request middleware
*/
package metrics
