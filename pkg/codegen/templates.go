package codegen

import "text/template"

// The generated scripts are self-contained: they resolve artifacts
// relative to their own directory so a deployment can be probed or served
// from any working directory.

var serveTemplate = template.Must(template.New(ServeScriptName).Parse(`#!/usr/bin/env python3
"""Serving wrapper for deployment {{.DeploymentName}} ({{.ModelName}})."""

import os
import time

import joblib


class {{.ClassName}}:
    """Loads the {{.ModelName}} artifacts and serves predictions."""

    def __init__(self, base_dir=None):
        self.base_dir = base_dir or os.path.dirname(os.path.abspath(__file__))
        self.model = None
        self.vectorizer = None
        self.loaded_at = None

    def load_model(self):
        self.model = joblib.load(os.path.join(self.base_dir, "{{.ModelFile}}"))
        vectorizer_path = os.path.join(self.base_dir, "vectorizer.pkl")
        if os.path.exists(vectorizer_path):
            self.vectorizer = joblib.load(vectorizer_path)
        self.loaded_at = time.time()

    def predict(self, payload):
        if self.model is None:
            self.load_model()

        features = payload["input"]
        if self.vectorizer is not None:
            features = self.vectorizer.transform([features])
        else:
            features = [features]

        prediction = self.model.predict(features)
        result = {
            "deployment": "{{.DeploymentName}}",
            "service_type": "{{.ServiceType}}",
            "prediction": prediction[0].tolist() if hasattr(prediction[0], "tolist") else prediction[0],
        }
        if hasattr(self.model, "predict_proba"):
            proba = self.model.predict_proba(features)
            result["confidence"] = float(max(proba[0]))
        return result
`))

var healthTemplate = template.Must(template.New(HealthScriptName).Parse(`#!/usr/bin/env python3
"""Health check for deployment {{.DeploymentName}}.

Prints a JSON report to stdout and exits 0 only when the deployment is
healthy: the model loads and answers one dummy prediction.
"""

import json
import sys
import time

from serve_model import {{.ClassName}}


def main():
    report = {
        "deployment": "{{.DeploymentName}}",
        "status": "unknown",
        "model_loaded": False,
        "checked_at": time.strftime("%Y-%m-%dT%H:%M:%SZ", time.gmtime()),
    }
    try:
        server = {{.ClassName}}()
        server.load_model()
        report["model_loaded"] = True

        started = time.time()
        server.predict({"input": {{.SampleInput}}})
        report["latency_ms"] = round((time.time() - started) * 1000, 2)
        report["status"] = "healthy"
    except Exception as exc:
        report["status"] = "unhealthy"
        report["error"] = str(exc)

    print(json.dumps(report))
    sys.exit(0 if report["status"] == "healthy" else 1)


if __name__ == "__main__":
    main()
`))
