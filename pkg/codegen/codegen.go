package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/hangarhq/hangar/pkg/types"
)

// Generated file names inside every deployment directory
const (
	ServeScriptName  = "serve_model.py"
	HealthScriptName = "health_check.py"
)

var deploymentNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Params drives script generation for one deployment
type Params struct {
	DeploymentName string
	ClassName      string
	ModelName      string
	ServiceType    types.ServiceType
	Framework      string
	ModelFile      string // file name of the primary model artifact
	SampleInput    string // Python literal used by the health-check prediction
}

// NewParams derives generation parameters from a deployment's model info
func NewParams(deploymentName string, info types.ModelInfo, modelFile string) Params {
	return Params{
		DeploymentName: deploymentName,
		ClassName:      PythonClassName(info.Name),
		ModelName:      info.Name,
		ServiceType:    info.ServiceType,
		Framework:      info.Framework,
		ModelFile:      modelFile,
		SampleInput:    sampleInput(info.ServiceType),
	}
}

// SanitizeDeploymentName lowercases a proposed deployment name, maps
// unsupported runes to underscores, and validates the result. Names are
// used as directory names and must never reach the shell or generated
// Python unescaped.
func SanitizeDeploymentName(name string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
	}

	sanitized := b.String()
	if !deploymentNameRe.MatchString(sanitized) {
		return "", fmt.Errorf("invalid deployment name %q", name)
	}
	return sanitized, nil
}

// PythonClassName derives a valid Python class identifier from a model
// name: invalid runes are dropped and the remaining words upper-camel-cased.
func PythonClassName(modelName string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range modelName {
		switch {
		case unicode.IsLetter(r):
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		case unicode.IsDigit(r) && b.Len() > 0:
			b.WriteRune(r)
			upperNext = true
		default:
			upperNext = true
		}
	}
	if b.Len() == 0 {
		return "ModelServer"
	}
	return b.String() + "Server"
}

// RequiredPackages lists the Python packages the generated scripts import
// for a given framework
func RequiredPackages(framework string) []string {
	base := []string{"joblib", "numpy", "scikit-learn"}
	switch framework {
	case "transformers":
		return append(base, "torch", "transformers")
	case "sentence-transformers":
		return append(base, "torch", "sentence-transformers")
	default:
		return base
	}
}

// WriteScripts renders serve_model.py and health_check.py into dir
func WriteScripts(dir string, p Params) error {
	if err := writeScript(filepath.Join(dir, ServeScriptName), serveTemplate, p); err != nil {
		return err
	}
	return writeScript(filepath.Join(dir, HealthScriptName), healthTemplate, p)
}

func writeScript(path string, tmpl *template.Template, p Params) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0755); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func sampleInput(serviceType types.ServiceType) string {
	switch serviceType {
	case types.ServiceTypePrediction:
		return "[0.0, 0.0, 0.0, 0.0]"
	default:
		return `"health check sample"`
	}
}
