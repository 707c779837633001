/*
Package monitor runs the background health probe loop over all published
deployments.

Every interval the monitor sweeps the deployment list, launches one
probe goroutine per deployment, and records verdicts on the manager so
listings reuse them. Probes for a deployment never overlap: a slow
health-check script causes that deployment to skip cycles instead of
stacking subprocesses.

# Probe Loop

	ticker ──► sweep
	            │  drop state for removed deployments
	            │  skip deployments with a probe in flight
	            └─► go probe(name) per due deployment
	                    │
	                    ├─ manager.HealthCheck (bounded by timeout)
	                    ├─ Status.Update (consecutive-failure logic)
	                    └─ publish deployment.healthy / .unhealthy
	                       on transitions only

Transitions use the health.Status retry threshold, so one failed probe
does not flip a deployment; Retries consecutive failures do, and the
first success recovers it.

# Usage

	mon := monitor.New(mgr, health.Config{
		Interval: 30 * time.Second,
		Timeout:  10 * time.Second,
		Retries:  3,
	})
	mon.Start()
	defer mon.Stop()

Stop waits for the loop and all spawned probes to return; abandoned
subprocesses die on their own timeout.

# See Also

  - pkg/health for Status and the checker implementations
  - pkg/manager for verdict recording and the probe itself
*/
package monitor
