/*
Package health provides health checking for deployed models.

The package defines a Checker interface with two implementations: a
script checker that runs a deployment's generated health-check script as
a subprocess, and an HTTP checker the manager switches to once a live
serving endpoint is registered for a deployment. Status tracking with
consecutive-failure counting turns raw
probe results into a stable healthy/unhealthy signal.

# Architecture

	┌──────────────── HEALTH CHECKING ────────────────┐
	│                                                  │
	│  ┌──────────────────────────────┐                │
	│  │       Checker interface      │                │
	│  │   Check(ctx) Result          │                │
	│  └───────┬─────────────┬────────┘                │
	│          │             │                          │
	│  ┌───────▼──────┐ ┌────▼─────────┐               │
	│  │ScriptChecker │ │ HTTPChecker  │               │
	│  │ python3      │ │ GET /health  │               │
	│  │ health_check │ │              │               │
	│  │ .py          │ │              │               │
	│  └───────┬──────┘ └────┬─────────┘               │
	│          │             │                          │
	│  ┌───────▼─────────────▼────────┐                │
	│  │      Result + Verdict        │                │
	│  │  healthy / unhealthy /       │                │
	│  │  unknown                     │                │
	│  └───────────┬──────────────────┘                │
	│              │                                    │
	│  ┌───────────▼──────────────────┐                │
	│  │   Status (retry counting)    │                │
	│  │  N consecutive failures      │                │
	│  │  → unhealthy                 │                │
	│  └──────────────────────────────┘                │
	└──────────────────────────────────────────────────┘

# Probe Semantics

ScriptChecker.Check never returns an error; every failure mode is
folded into the verdict:

  - Timeout: the subprocess is killed, status becomes "unhealthy" with
    a timeout error
  - Non-zero exit with a valid JSON report: the report's own status
    wins (generated scripts exit 1 on unhealthy but still print the
    report)
  - Unparseable stdout: status becomes "unknown" with a stderr excerpt

Only the exact status string "healthy" counts as healthy.

# Status Tracking

Status assumes healthy until proven otherwise, flips to unhealthy after
Retries consecutive failures, and recovers on the first success. This
keeps a single slow probe from flapping the deployment state.

	status := health.NewStatus()
	status.Update(result, config)   // after each probe
	if !status.Healthy { ... }

# Usage

	checker := health.NewScriptChecker("python3",
		"/deploy/churn_v1/health_check.py",
		"/deploy/churn_v1").WithTimeout(10 * time.Second)

	result := checker.Check(ctx)
	if result.Healthy {
		// verdict details in result.Verdict
	}

# Design Notes

The subprocess runs with its working directory set to the deployment
directory so the script resolves artifacts relatively. The timeout is
enforced with exec.CommandContext; a stuck interpreter cannot outlive
the probe.

# See Also

  - pkg/codegen for the script the ScriptChecker executes
  - pkg/monitor for the background loop driving periodic probes
  - pkg/manager for on-demand probes and verdict caching
*/
package health
