/*
Package manager implements the deployment manager: the component that
turns completed training sessions into published, servable deployment
directories and owns their whole lifecycle.

The Manager is an explicit instance created with NewManager; there is no
package-level state. It composes the registry store, the on-disk
artifact tree, script generation, health probing and event publishing
behind one API used by both the REST server and tests.

# Architecture

	┌───────────────────── MANAGER ──────────────────────┐
	│                                                     │
	│  Deploy / Undeploy / List / HealthCheck             │
	│  RegisterModel / CreateSession / CompleteSession    │
	│            │                                        │
	│  ┌─────────▼─────────┐   ┌──────────────────────┐   │
	│  │ per-name locks    │   │ health verdict cache │   │
	│  └─────────┬─────────┘   └──────────┬───────────┘   │
	│            │                        │               │
	│  ┌─────────▼──────┐ ┌───────────────▼───────────┐   │
	│  │ storage.Store  │ │ CheckerFactory            │   │
	│  │ (bbolt)        │ │ → health.ScriptChecker or │   │
	│  │                │ │   health.HTTPChecker      │   │
	│  └────────────────┘ └───────────────────────────┘   │
	│  ┌────────────────┐ ┌───────────────────────────┐   │
	│  │ artifact.Store │ │ events.Broker             │   │
	│  │ (stage/publish)│ │ (lifecycle events)        │   │
	│  └────────────────┘ └───────────────────────────┘   │
	└─────────────────────────────────────────────────────┘

# Deploy Pipeline

Deploy(ctx, sessionID, name) runs these steps under the per-name lock:

 1. Validate: the session exists, is completed, and has artifacts;
    the referenced model exists
 2. Name: default to <model>_<YYYYMMDD_HHMMSS>, then sanitize
 3. Stage: create a hidden staging directory
 4. Fill: copy artifacts, write deployment_config.json, render
    serve_model.py and health_check.py
 5. Publish: one atomic rename makes the deployment visible
 6. Registry: flag the model row as deployed (rolled back on failure)
 7. Event: deployment.created

Any failure before publish discards the stage and leaves no trace; a
deployment either exists completely or not at all.

# Error Taxonomy

Two sentinels classify every operational failure:

	ErrValidation   caller mistake → HTTP 400
	ErrNotFound     missing resource → HTTP 404

Anything else is an internal error. A degraded health probe is NOT an
error: HealthCheck returns the unhealthy verdict with err == nil, and
only a missing deployment fails.

# Probing

The default checker runs the deployment's generated health-check script
as a subprocess. RegisterServing records the health endpoint of a live
serving process in the descriptor; from then on probes hit that endpoint
over HTTP, and an empty URL reverts to script probes.

# Health Verdict Cache

Probing forks a subprocess, so listings never probe directly: they use
the last cached verdict (fed by the background monitor) and fall back
to one probe only for deployments that have never been checked.
Undeploy drops the cache entry.

# Usage

	mgr, err := manager.NewManager(&manager.Config{
		DataDir:      "/var/lib/hangar",
		DeployDir:    "/var/lib/hangar/deployed_models",
		PythonBin:    "python3",
		ProbeTimeout: 10 * time.Second,
	})
	if err != nil {
		return err
	}
	defer mgr.Shutdown()

	result, err := mgr.Deploy(ctx, sessionID, "")
	if err != nil {
		return err
	}
	fmt.Println(result.Name, result.Path)

Tests inject probes with SetCheckerFactory, so no Python interpreter is
needed to exercise the lifecycle.

# Concurrency

Deploy and Undeploy serialize per deployment name; operations on
different names run concurrently. The registry store and artifact store
are safe for concurrent use, and the verdict cache is guarded by its
own RWMutex.

# See Also

  - pkg/artifact for the stage/publish protocol
  - pkg/codegen for the generated scripts
  - pkg/monitor for background probing
  - pkg/api for the REST surface over this manager
*/
package manager
