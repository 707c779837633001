/*
Package api exposes the deployment manager over a REST/JSON API built on
Echo.

The server is a thin translation layer: handlers bind JSON, call the
manager, and map its error taxonomy onto HTTP status codes. No business
logic lives here.

# Routes

Deployments:

	POST   /v1/deployments                 deploy a completed session
	GET    /v1/deployments                 list deployments
	GET    /v1/deployments/:name           full descriptor
	DELETE /v1/deployments/:name           undeploy
	GET    /v1/deployments/:name/health    on-demand probe
	PUT    /v1/deployments/:name/serving   register a live serving endpoint

Registry:

	POST   /v1/models                      register a model family
	GET    /v1/models                      list models
	GET    /v1/models/:id                  one model
	POST   /v1/sessions                    record a training session
	GET    /v1/sessions                    list sessions
	GET    /v1/sessions/:id                one session
	PUT    /v1/sessions/:id/complete       mark completed with artifacts

Operational:

	GET    /v1/events                      SSE stream of lifecycle events
	GET    /healthz                        liveness
	GET    /readyz                         readiness (storage + deploy dir)
	GET    /metrics                        Prometheus metrics

# Error Mapping

	manager.ErrValidation → 400 {"success": false, "error": "..."}
	manager.ErrNotFound   → 404 {"success": false, "error": "..."}
	anything else         → 500 with a generic message; the cause is
	                        logged, never leaked

A degraded health verdict is a successful probe: GET .../health returns
200 with status "unhealthy" rather than an error status.

# Middleware

Every request passes through recovery, a zerolog request logger, and
Prometheus counters labeled by method, route pattern and status.

# Usage

	server := api.NewServer(mgr)
	if err := server.Start("127.0.0.1:8420"); err != nil {
		return err
	}

Shutdown(ctx) drains in-flight requests. Handler() exposes the
http.Handler for tests.

# See Also

  - pkg/manager for the operations behind every route
  - pkg/client for the Go client of this API
*/
package api
