/*
Package types defines the core data structures shared across all hangar
components.

This package contains pure data definitions with no business logic: the
model registry entry, the training session record, the on-disk deployment
descriptor and the health verdict. All components (manager, api, monitor,
client) communicate through these types, keeping dependencies flowing in
one direction.

# Core Types

ModelRegistryEntry:
  - One trained model family in the registry
  - Carries service type, framework, version and an optional
    DeploymentRef once the model is deployed
  - Persisted in the models bucket keyed by ID

TrainingSession:
  - One training run: created pending, completed with accuracy,
    timing and artifact paths
  - A completed session is the only valid input to a deploy
  - Persisted in the sessions bucket keyed by ID

DeploymentConfig:
  - The descriptor written as deployment_config.json inside every
    deployment directory
  - Snake_case JSON keys; the file is the source of truth for
    listings, not the registry
  - Sections: model_info, training_info, serving_config, model_files,
    environment, monitoring

HealthVerdict:
  - The parsed outcome of one health-check probe
  - Status is "healthy", "unhealthy" or "unknown"; only the exact
    string "healthy" counts as healthy

DeploymentSummary:
  - One row of a deployment listing, derived from the descriptor and
    the latest cached verdict

# Usage

Creating a registry entry:

	model := &types.ModelRegistryEntry{
		Name:        "sales_forecast",
		ServiceType: types.ServiceTypePrediction,
		ModelType:   "random_forest",
		Framework:   "sklearn",
		Version:     "1.0.0",
	}

Recording a finished training run:

	session := &types.TrainingSession{
		ModelID:  model.ID,
		Status:   types.SessionStatusCompleted,
		Accuracy: 0.87,
		ArtifactPaths: map[string]string{
			"model":  "/data/artifacts/model.pkl",
			"scaler": "/data/artifacts/scaler.pkl",
		},
	}

# Session State Machine

	pending ──► running ──► completed
	                │
	                └─────► failed

Only completed sessions can be deployed. The manager enforces the
transition rules; the types package just names the states.

# Thread Safety

Types in this package are plain data and are not safe for concurrent
mutation. Components copy or guard them; the storage layer hands out
fresh instances on every read.

# See Also

  - pkg/storage for persistence of registry entries and sessions
  - pkg/artifact for reading and writing DeploymentConfig
  - pkg/manager for the operations that enforce the invariants
*/
package types
