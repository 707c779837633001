package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hangarhq/hangar/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDeploymentName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "already valid", input: "churn_20260824", expected: "churn_20260824"},
		{name: "uppercase", input: "ChurnModel", expected: "churnmodel"},
		{name: "spaces to underscores", input: "sales forecast v2", expected: "sales_forecast_v2"},
		{name: "dots to underscores", input: "model.v1.2", expected: "model_v1_2"},
		{name: "hyphens kept", input: "nlp-sentiment", expected: "nlp-sentiment"},
		{name: "surrounding whitespace", input: "  demo  ", expected: "demo"},
		{name: "path traversal rejected", input: "../../etc/passwd", wantErr: true},
		{name: "shell metacharacters dropped", input: "rm;-rf", expected: "rm-rf"},
		{name: "empty", input: "", wantErr: true},
		{name: "only invalid runes", input: "@#$%", wantErr: true},
		{name: "leading underscore rejected", input: "_hidden", wantErr: true},
		{name: "leading hyphen rejected", input: "-flag", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeDeploymentName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPythonClassName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sales_forecast", "SalesForecastServer"},
		{"churn model v2", "ChurnModelV2Server"},
		{"nlp-sentiment", "NlpSentimentServer"},
		{"already Camel", "AlreadyCamelServer"},
		{"123", "ModelServer"},
		{"", "ModelServer"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PythonClassName(tt.input), "input %q", tt.input)
	}
}

func TestRequiredPackages(t *testing.T) {
	base := RequiredPackages("sklearn")
	assert.Contains(t, base, "joblib")
	assert.Contains(t, base, "scikit-learn")
	assert.NotContains(t, base, "torch")

	assert.Contains(t, RequiredPackages("transformers"), "torch")
	assert.Contains(t, RequiredPackages("transformers"), "transformers")
	assert.Contains(t, RequiredPackages("sentence-transformers"), "sentence-transformers")
}

func TestWriteScripts(t *testing.T) {
	dir := t.TempDir()

	params := NewParams("churn_20260824_101500", types.ModelInfo{
		Name:        "churn model",
		ServiceType: types.ServiceTypeClassification,
		Framework:   "sklearn",
	}, "model.pkl")

	require.NoError(t, WriteScripts(dir, params))

	serve, err := os.ReadFile(filepath.Join(dir, ServeScriptName))
	require.NoError(t, err)
	serveSrc := string(serve)
	assert.Contains(t, serveSrc, "class ChurnModelServer:")
	assert.Contains(t, serveSrc, `"model.pkl"`)
	assert.Contains(t, serveSrc, "churn_20260824_101500")
	assert.NotContains(t, serveSrc, "{{")

	health, err := os.ReadFile(filepath.Join(dir, HealthScriptName))
	require.NoError(t, err)
	healthSrc := string(health)
	assert.Contains(t, healthSrc, "from serve_model import ChurnModelServer")
	assert.Contains(t, healthSrc, `sys.exit(0 if report["status"] == "healthy" else 1)`)
	assert.NotContains(t, healthSrc, "{{")

	// Scripts are executable
	for _, name := range []string{ServeScriptName, HealthScriptName} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0111)
	}
}

func TestSampleInputByServiceType(t *testing.T) {
	numeric := NewParams("d", types.ModelInfo{ServiceType: types.ServiceTypePrediction}, "model.pkl")
	assert.Equal(t, "[0.0, 0.0, 0.0, 0.0]", numeric.SampleInput)

	text := NewParams("d", types.ModelInfo{ServiceType: types.ServiceTypeNLP}, "model.pkl")
	assert.True(t, strings.HasPrefix(text.SampleInput, `"`))
}
