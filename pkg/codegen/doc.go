/*
Package codegen renders the Python serving and health-check scripts
written into every deployment directory.

Each deployment is self-contained: serve_model.py defines a class that
loads the model artifacts with joblib and answers predictions, and
health_check.py imports that class, runs one dummy prediction and prints
a JSON report. The scripts resolve artifacts relative to their own
directory, so a deployment can be probed or served from any working
directory.

# Generated Files

serve_model.py:
  - class <ModelName>Server with load_model() and predict(payload)
  - Loads the primary model artifact plus vectorizer.pkl when present
  - Reports confidence when the model supports predict_proba

health_check.py:
  - Imports the serving class from serve_model.py
  - Loads the model and runs one prediction on a sample input
  - Prints {"status", "model_loaded", "checked_at", ...} to stdout
  - Exits 0 only when the status is "healthy"

# Name Sanitization

Deployment names become directory names and are embedded in generated
Python, so they are locked down: SanitizeDeploymentName lowercases,
maps spaces and dots to underscores, drops everything else, and
requires the result to match ^[a-z0-9][a-z0-9_-]*$. PythonClassName
derives a valid identifier from the model name, falling back to
ModelServer when nothing usable remains.

# Usage

	params := codegen.NewParams(name, cfg.ModelInfo, "model.pkl")
	if err := codegen.WriteScripts(stageDir, params); err != nil {
		return err
	}

The sample input used by the health check depends on the service type:
numeric feature vectors for prediction models, a short text for
everything else.

# See Also

  - pkg/health for the checker that executes health_check.py
  - pkg/artifact for the directory the scripts are written into
*/
package codegen
