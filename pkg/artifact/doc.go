/*
Package artifact manages the on-disk deployment tree: one directory per
deployment under a fixed root, plus the JSON descriptor inside each.

# Architecture

	deployed_models/                    ← Store root
	├── churn_20260824_101500/          ← published deployment
	│   ├── model.pkl
	│   ├── scaler.pkl
	│   ├── serve_model.py
	│   ├── health_check.py
	│   └── deployment_config.json      ← descriptor
	├── sales_v2/
	│   └── ...
	└── .stage-nlp_v1/                  ← in-progress deploy (hidden)

# Publish Protocol

A deployment becomes visible in a single step:

 1. Stage(name) creates .stage-<name> (fails if the deployment is
    already published; a stale stage from a crashed deploy is cleared)
 2. The caller fills the stage: artifacts, scripts, descriptor
 3. Publish(name) renames .stage-<name> to <name>

Because List skips dot-prefixed entries and the rename is atomic on the
same filesystem, a reader never observes a half-built deployment. A
failed deploy calls DiscardStage and leaves no published trace.

The descriptor follows the same discipline: WriteConfig writes to a
.tmp file and renames it over deployment_config.json.

# Usage

	store, err := artifact.NewStore("/var/lib/hangar/deployed_models")
	if err != nil {
		return err
	}

	stageDir, err := store.Stage("churn_v1")
	if err != nil {
		return err
	}
	files, err := store.CopyArtifacts(stageDir, session.ArtifactPaths)
	if err != nil {
		store.DiscardStage("churn_v1")
		return err
	}
	if err := artifact.WriteConfig(stageDir, cfg); err != nil {
		store.DiscardStage("churn_v1")
		return err
	}
	if err := store.Publish("churn_v1"); err != nil {
		return err
	}

# Artifact Accounting

CopyArtifacts processes artifact types in sorted order so the
files_copied list in the descriptor is deterministic. Sizes are rounded
to hundredths of a megabyte, matching what the descriptor reports.

# See Also

  - pkg/codegen for the scripts written into the stage
  - pkg/manager for the deploy orchestration around this store
*/
package artifact
