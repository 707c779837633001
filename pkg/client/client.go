package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hangarhq/hangar/pkg/types"
)

// Client talks to a hangar server over its REST API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given server address. The address
// may be a bare host:port or a full http:// URL.
func NewClient(addr string) *Client {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Deployment mirrors the server's deploy response payload
type Deployment struct {
	Name      string                  `json:"name"`
	Path      string                  `json:"path"`
	Config    *types.DeploymentConfig `json:"config"`
	Endpoints []types.Endpoint        `json:"endpoints"`
}

// SessionResult carries the outcome of a finished training run
type SessionResult struct {
	Accuracy      float64           `json:"accuracy"`
	TrainingTime  float64           `json:"training_time"`
	DataSize      int64             `json:"data_size"`
	ArtifactPaths map[string]string `json:"artifact_paths"`
}

type deployRequest struct {
	TrainingSessionID string `json:"training_session_id"`
	DeploymentName    string `json:"deployment_name,omitempty"`
}

type deployResponse struct {
	Success    bool        `json:"success"`
	Deployment *Deployment `json:"deployment"`
}

// Deploy deploys the artifacts of a completed training session
func (c *Client) Deploy(ctx context.Context, sessionID, deploymentName string) (*Deployment, error) {
	var resp deployResponse
	req := deployRequest{TrainingSessionID: sessionID, DeploymentName: deploymentName}
	if err := c.do(ctx, http.MethodPost, "/v1/deployments", req, &resp); err != nil {
		return nil, err
	}
	return resp.Deployment, nil
}

type listDeploymentsResponse struct {
	Deployments []types.DeploymentSummary `json:"deployments"`
	Count       int                       `json:"count"`
}

// ListDeployments returns all published deployments
func (c *Client) ListDeployments(ctx context.Context) ([]types.DeploymentSummary, error) {
	var resp listDeploymentsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/deployments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Deployments, nil
}

// GetDeployment returns the full descriptor of one deployment
func (c *Client) GetDeployment(ctx context.Context, name string) (*types.DeploymentConfig, error) {
	var cfg types.DeploymentConfig
	if err := c.do(ctx, http.MethodGet, "/v1/deployments/"+name, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Undeploy removes a deployment
func (c *Client) Undeploy(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/v1/deployments/"+name, nil, nil)
}

// DeploymentHealth runs an on-demand health probe
func (c *Client) DeploymentHealth(ctx context.Context, name string) (*types.HealthVerdict, error) {
	var verdict types.HealthVerdict
	if err := c.do(ctx, http.MethodGet, "/v1/deployments/"+name+"/health", nil, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

type servingRequest struct {
	HealthURL string `json:"health_url"`
}

// RegisterServing records a live serving endpoint for a deployment so
// probes go over HTTP. An empty URL reverts to script probes.
func (c *Client) RegisterServing(ctx context.Context, name, healthURL string) (*types.DeploymentConfig, error) {
	var cfg types.DeploymentConfig
	req := servingRequest{HealthURL: healthURL}
	if err := c.do(ctx, http.MethodPut, "/v1/deployments/"+name+"/serving", req, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RegisterModel adds a model family to the registry
func (c *Client) RegisterModel(ctx context.Context, model *types.ModelRegistryEntry) (*types.ModelRegistryEntry, error) {
	var created types.ModelRegistryEntry
	if err := c.do(ctx, http.MethodPost, "/v1/models", model, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type listModelsResponse struct {
	Models []*types.ModelRegistryEntry `json:"models"`
	Count  int                         `json:"count"`
}

// ListModels returns all registered models
func (c *Client) ListModels(ctx context.Context) ([]*types.ModelRegistryEntry, error) {
	var resp listModelsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/models", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// GetModel returns a registry entry by ID
func (c *Client) GetModel(ctx context.Context, id string) (*types.ModelRegistryEntry, error) {
	var model types.ModelRegistryEntry
	if err := c.do(ctx, http.MethodGet, "/v1/models/"+id, nil, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// CreateSession records a training session
func (c *Client) CreateSession(ctx context.Context, session *types.TrainingSession) (*types.TrainingSession, error) {
	var created types.TrainingSession
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", session, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type listSessionsResponse struct {
	Sessions []*types.TrainingSession `json:"sessions"`
	Count    int                      `json:"count"`
}

// ListSessions returns all training sessions
func (c *Client) ListSessions(ctx context.Context) ([]*types.TrainingSession, error) {
	var resp listSessionsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// GetSession returns a training session by ID
func (c *Client) GetSession(ctx context.Context, id string) (*types.TrainingSession, error) {
	var session types.TrainingSession
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/"+id, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CompleteSession marks a session completed and records its artifacts
func (c *Client) CompleteSession(ctx context.Context, id string, result SessionResult) (*types.TrainingSession, error) {
	var session types.TrainingSession
	if err := c.do(ctx, http.MethodPut, "/v1/sessions/"+id+"/complete", result, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ServerHealthy reports whether the server's own health endpoint answers
func (c *Client) ServerHealthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// do sends a JSON request and decodes the JSON response into out.
// Non-2xx responses are turned into errors carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
