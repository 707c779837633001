package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hangarhq/hangar/pkg/health"
	"github.com/hangarhq/hangar/pkg/manager"
	"github.com/hangarhq/hangar/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	verdict types.HealthVerdict
}

func (c *stubChecker) Check(ctx context.Context) health.Result {
	v := c.verdict
	v.CheckedAt = time.Now()
	return health.Result{Healthy: v.Healthy(), Message: v.Status, Verdict: v, CheckedAt: v.CheckedAt}
}

func (c *stubChecker) Type() health.CheckType { return health.CheckTypeScript }

func newTestServer(t *testing.T) (*Server, *manager.Manager) {
	t.Helper()
	dir := t.TempDir()

	mgr, err := manager.NewManager(&manager.Config{
		DataDir:      dir,
		DeployDir:    filepath.Join(dir, "deployed_models"),
		PythonBin:    "python3",
		ProbeTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Shutdown() })

	mgr.SetCheckerFactory(func(name, dir string) health.Checker {
		return &stubChecker{verdict: types.HealthVerdict{Status: "healthy", ModelLoaded: true, Deployment: name}}
	})

	return NewServer(mgr), mgr
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// seedCompletedSession drives the registry through the API up to a
// completed session, returning its ID
func seedCompletedSession(t *testing.T, s *Server, modelName string) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/v1/models", types.ModelRegistryEntry{
		Name:        modelName,
		ServiceType: types.ServiceTypePrediction,
		Framework:   "sklearn",
		Version:     "1.0.0",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	model := decode[types.ModelRegistryEntry](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/v1/sessions", types.TrainingSession{ModelID: model.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[types.TrainingSession](t, rec)

	modelPath := filepath.Join(t.TempDir(), "model.pkl")
	require.NoError(t, os.WriteFile(modelPath, []byte("weights"), 0644))

	rec = doJSON(t, s, http.MethodPut, "/v1/sessions/"+session.ID+"/complete", manager.SessionResult{
		Accuracy:      0.87,
		TrainingTime:  12.5,
		DataSize:      1000,
		ArtifactPaths: map[string]string{"model": modelPath},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return session.ID
}

func TestDeployLifecycleOverAPI(t *testing.T) {
	s, _ := newTestServer(t)
	sessionID := seedCompletedSession(t, s, "churn")

	// Deploy
	rec := doJSON(t, s, http.MethodPost, "/v1/deployments", map[string]string{
		"training_session_id": sessionID,
		"deployment_name":     "churn_v1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[deployResponse](t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, "churn_v1", created.Deployment.Name)
	assert.NotEmpty(t, created.Deployment.Endpoints)

	// List
	rec = doJSON(t, s, http.MethodGet, "/v1/deployments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listDeploymentsResponse](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "churn_v1", list.Deployments[0].Name)

	// Descriptor
	rec = doJSON(t, s, http.MethodGet, "/v1/deployments/churn_v1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[types.DeploymentConfig](t, rec)
	assert.Equal(t, 0.87, cfg.TrainingInfo.Accuracy)

	// Health
	rec = doJSON(t, s, http.MethodGet, "/v1/deployments/churn_v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	verdict := decode[types.HealthVerdict](t, rec)
	assert.Equal(t, "healthy", verdict.Status)

	// Undeploy
	rec = doJSON(t, s, http.MethodDelete, "/v1/deployments/churn_v1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/v1/deployments/churn_v1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeployValidationErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body any
		code int
	}{
		{name: "missing session id", body: map[string]string{}, code: http.StatusBadRequest},
		{name: "unknown session", body: map[string]string{"training_session_id": "nope"}, code: http.StatusBadRequest},
		{name: "malformed body", body: "not an object", code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/v1/deployments", tt.body)
			assert.Equal(t, tt.code, rec.Code)

			resp := decode[errorResponse](t, rec)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestDeploymentNotFoundResponses(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{
		"/v1/deployments/ghost",
		"/v1/deployments/ghost/health",
	} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestModelEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/models", types.ModelRegistryEntry{
		Name:        "sentiment",
		ServiceType: types.ServiceTypeNLP,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	model := decode[types.ModelRegistryEntry](t, rec)
	require.NotEmpty(t, model.ID)

	rec = doJSON(t, s, http.MethodGet, "/v1/models/"+model.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/models", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Validation failure surfaces as 400
	rec = doJSON(t, s, http.MethodPost, "/v1/models", types.ModelRegistryEntry{ServiceType: types.ServiceTypeNLP})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/models", types.ModelRegistryEntry{
		Name:        "churn",
		ServiceType: types.ServiceTypeClassification,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	model := decode[types.ModelRegistryEntry](t, rec)

	rec = doJSON(t, s, http.MethodPost, "/v1/sessions", types.TrainingSession{ModelID: model.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[types.TrainingSession](t, rec)
	assert.Equal(t, types.SessionStatusPending, session.Status)

	// Completing without artifacts is a validation error
	rec = doJSON(t, s, http.MethodPut, "/v1/sessions/"+session.ID+"/complete", manager.SessionResult{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown session is 404
	rec = doJSON(t, s, http.MethodPut, "/v1/sessions/ghost/complete", manager.SessionResult{
		ArtifactPaths: map[string]string{"model": "/tmp/m.pkl"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterServingEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	sessionID := seedCompletedSession(t, s, "live")

	rec := doJSON(t, s, http.MethodPost, "/v1/deployments", map[string]string{
		"training_session_id": sessionID,
		"deployment_name":     "live_v1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Register a serving endpoint; the descriptor comes back updated
	rec = doJSON(t, s, http.MethodPut, "/v1/deployments/live_v1/serving", map[string]string{
		"health_url": "http://127.0.0.1:9000/health",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cfg := decode[types.DeploymentConfig](t, rec)
	assert.Equal(t, "http://127.0.0.1:9000/health", cfg.ServingConfig.HealthURL)

	// The change is persisted in the descriptor
	rec = doJSON(t, s, http.MethodGet, "/v1/deployments/live_v1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg = decode[types.DeploymentConfig](t, rec)
	assert.Equal(t, "http://127.0.0.1:9000/health", cfg.ServingConfig.HealthURL)

	// A non-http URL is a validation error
	rec = doJSON(t, s, http.MethodPut, "/v1/deployments/live_v1/serving", map[string]string{
		"health_url": "ftp://host/health",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown deployment is 404
	rec = doJSON(t, s, http.MethodPut, "/v1/deployments/ghost/serving", map[string]string{
		"health_url": "http://127.0.0.1:9000/health",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListManyDeployments(t *testing.T) {
	s, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		sessionID := seedCompletedSession(t, s, fmt.Sprintf("model_%d", i))
		rec := doJSON(t, s, http.MethodPost, "/v1/deployments", map[string]string{
			"training_session_id": sessionID,
			"deployment_name":     fmt.Sprintf("deploy_%d", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, s, http.MethodDelete, "/v1/deployments/deploy_0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/v1/deployments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listDeploymentsResponse](t, rec)
	assert.Equal(t, 2, list.Count)
}

func TestHealthzAndReadyz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hangar_")
}
