package manager

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hangarhq/hangar/pkg/artifact"
	"github.com/hangarhq/hangar/pkg/codegen"
	"github.com/hangarhq/hangar/pkg/events"
	"github.com/hangarhq/hangar/pkg/health"
	"github.com/hangarhq/hangar/pkg/log"
	"github.com/hangarhq/hangar/pkg/metrics"
	"github.com/hangarhq/hangar/pkg/storage"
	"github.com/hangarhq/hangar/pkg/types"
	"github.com/rs/zerolog"
)

var (
	// ErrValidation marks errors the API surfaces as 400
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks errors the API surfaces as 404
	ErrNotFound = errors.New("not found")
)

// Config holds configuration for creating a Manager
type Config struct {
	DataDir      string
	DeployDir    string
	PythonBin    string
	ProbeTimeout time.Duration
}

// CheckerFactory builds a health checker for a deployment directory.
// Swappable so tests and the monitor can inject probes.
type CheckerFactory func(name, dir string) health.Checker

// Manager owns the deployment subsystem: the registry store, the on-disk
// deployment tree, script generation and health verdicts. All operations
// go through an explicit Manager instance; there is no package-level state.
type Manager struct {
	cfg       *Config
	store     storage.Store
	artifacts *artifact.Store
	broker    *events.Broker
	logger    zerolog.Logger

	checkerFn CheckerFactory

	// nameLocks serializes deploy/undeploy per deployment name
	locksMu   sync.Mutex
	nameLocks map[string]*sync.Mutex

	// healthCache holds the last probe verdict per deployment
	healthMu    sync.RWMutex
	healthCache map[string]types.HealthVerdict
}

// DeployResult is returned by a successful Deploy
type DeployResult struct {
	Name      string                  `json:"name"`
	Path      string                  `json:"path"`
	Config    *types.DeploymentConfig `json:"config"`
	Endpoints []types.Endpoint        `json:"endpoints"`
}

// NewManager creates a new Manager instance
func NewManager(cfg *Config) (*Manager, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	artifacts, err := artifact.NewStore(cfg.DeployDir)
	if err != nil {
		store.Close()
		return nil, err
	}

	broker := events.NewBroker()
	broker.Start()

	m := &Manager{
		cfg:         cfg,
		store:       store,
		artifacts:   artifacts,
		broker:      broker,
		logger:      log.WithComponent("manager"),
		nameLocks:   make(map[string]*sync.Mutex),
		healthCache: make(map[string]types.HealthVerdict),
	}
	m.checkerFn = m.defaultChecker
	return m, nil
}

// defaultChecker probes the registered serving endpoint over HTTP when
// the deployment has one; otherwise it runs the health-check script.
func (m *Manager) defaultChecker(name, dir string) health.Checker {
	if cfg, err := artifact.ReadConfig(dir); err == nil && cfg.ServingConfig.HealthURL != "" {
		return health.NewHTTPChecker(cfg.ServingConfig.HealthURL).WithTimeout(m.cfg.ProbeTimeout)
	}
	script := filepath.Join(dir, codegen.HealthScriptName)
	return health.NewScriptChecker(m.cfg.PythonBin, script, dir).WithTimeout(m.cfg.ProbeTimeout)
}

// SetCheckerFactory overrides how health probes are built
func (m *Manager) SetCheckerFactory(fn CheckerFactory) {
	m.checkerFn = fn
}

// Events returns the manager's event broker
func (m *Manager) Events() *events.Broker {
	return m.broker
}

// DeployDir returns the deployment root directory
func (m *Manager) DeployDir() string {
	return m.artifacts.Root()
}

// Shutdown releases the manager's resources
func (m *Manager) Shutdown() error {
	m.broker.Stop()
	return m.store.Close()
}

// lockName acquires the per-name deployment lock and returns the unlock
func (m *Manager) lockName(name string) func() {
	m.locksMu.Lock()
	mu, ok := m.nameLocks[name]
	if !ok {
		mu = &sync.Mutex{}
		m.nameLocks[name] = mu
	}
	m.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Deploy materializes a self-contained deployment directory from a
// completed training session. With an empty name the deployment is named
// <model-name>_<YYYYMMDD_HHMMSS>.
func (m *Manager) Deploy(ctx context.Context, sessionID, name string) (*DeployResult, error) {
	start := time.Now()

	result, err := m.deploy(ctx, sessionID, name)
	if err != nil {
		metrics.DeploysTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	metrics.DeploysTotal.WithLabelValues("success").Inc()
	metrics.DeployDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

func (m *Manager) deploy(ctx context.Context, sessionID, name string) (*DeployResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: training_session_id is required", ErrValidation)
	}

	session, err := m.store.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown training session %s", ErrValidation, sessionID)
		}
		return nil, err
	}
	if session.Status != types.SessionStatusCompleted {
		return nil, fmt.Errorf("%w: training session %s is %s, not completed",
			ErrValidation, sessionID, session.Status)
	}
	if len(session.ArtifactPaths) == 0 {
		return nil, fmt.Errorf("%w: training session %s has no artifacts", ErrValidation, sessionID)
	}

	model, err := m.store.GetModel(session.ModelID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown model %s", ErrValidation, session.ModelID)
		}
		return nil, err
	}

	if name == "" {
		name = fmt.Sprintf("%s_%s", model.Name, time.Now().Format("20060102_150405"))
	}
	name, err = codegen.SanitizeDeploymentName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	unlock := m.lockName(name)
	defer unlock()

	if m.artifacts.Exists(name) {
		return nil, fmt.Errorf("%w: deployment %s already exists", ErrValidation, name)
	}

	logger := m.logger.With().Str("deployment", name).Str("session_id", sessionID).Logger()
	logger.Info().Msg("deploying model")

	stageDir, err := m.artifacts.Stage(name)
	if err != nil {
		return nil, err
	}

	files, err := m.artifacts.CopyArtifacts(stageDir, session.ArtifactPaths)
	if err != nil {
		m.artifacts.DiscardStage(name)
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	deployPath := m.artifacts.Path(name)
	cfg := buildConfig(name, deployPath, model, session, files)

	if err := artifact.WriteConfig(stageDir, cfg); err != nil {
		m.artifacts.DiscardStage(name)
		return nil, err
	}

	params := codegen.NewParams(name, cfg.ModelInfo, primaryModelFile(session))
	if err := codegen.WriteScripts(stageDir, params); err != nil {
		m.artifacts.DiscardStage(name)
		return nil, err
	}

	if err := m.artifacts.Publish(name); err != nil {
		m.artifacts.DiscardStage(name)
		return nil, err
	}

	// Flag the registry row; a published deployment with a stale row is
	// worse than a failed deploy, so roll back on error.
	model.Deployment = &types.DeploymentRef{
		Name:       name,
		Path:       deployPath,
		DeployedAt: cfg.CreatedAt,
	}
	model.Active = true
	model.UpdatedAt = time.Now()
	if err := m.store.UpdateModel(model); err != nil {
		if rmErr := m.artifacts.Remove(name); rmErr != nil {
			logger.Error().Err(rmErr).Msg("failed to roll back deployment directory")
		}
		return nil, fmt.Errorf("failed to update registry: %w", err)
	}

	m.broker.Publish(&events.Event{
		ID:      uuid.New().String(),
		Type:    events.EventDeploymentCreated,
		Message: fmt.Sprintf("deployment %s created from session %s", name, sessionID),
		Metadata: map[string]string{
			"deployment": name,
			"model_id":   model.ID,
			"session_id": sessionID,
		},
	})

	logger.Info().Float64("size_mb", files.ModelSizeMB).Msg("deployment published")

	return &DeployResult{
		Name:      name,
		Path:      deployPath,
		Config:    cfg,
		Endpoints: Endpoints(model.ServiceType),
	}, nil
}

// ListDeployments enumerates published deployments, newest first. A
// deployment with a corrupt descriptor is logged and skipped; it never
// hides the others.
func (m *Manager) ListDeployments(ctx context.Context) ([]types.DeploymentSummary, error) {
	names, err := m.artifacts.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]types.DeploymentSummary, 0, len(names))
	for _, name := range names {
		cfg, err := artifact.ReadConfig(m.artifacts.Path(name))
		if err != nil {
			m.logger.Warn().Err(err).Str("deployment", name).Msg("skipping unreadable deployment")
			continue
		}

		summaries = append(summaries, types.DeploymentSummary{
			Name:        cfg.DeploymentName,
			ModelName:   cfg.ModelInfo.Name,
			ServiceType: cfg.ModelInfo.ServiceType,
			Version:     cfg.ModelInfo.Version,
			DeployedAt:  cfg.CreatedAt,
			IsHealthy:   m.verdictFor(ctx, name).Healthy(),
			Path:        cfg.DeploymentPath,
			ModelSizeMB: cfg.ModelFiles.ModelSizeMB,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].DeployedAt.After(summaries[j].DeployedAt)
	})
	return summaries, nil
}

// DeploymentNames returns the names of all published deployments
func (m *Manager) DeploymentNames() ([]string, error) {
	return m.artifacts.List()
}

// GetDeployment returns the descriptor of one deployment
func (m *Manager) GetDeployment(name string) (*types.DeploymentConfig, error) {
	if !m.artifacts.Exists(name) {
		return nil, fmt.Errorf("%w: deployment %s", ErrNotFound, name)
	}
	return artifact.ReadConfig(m.artifacts.Path(name))
}

// Undeploy removes a deployment directory and best-effort clears the
// registry row that points at it
func (m *Manager) Undeploy(ctx context.Context, name string) error {
	unlock := m.lockName(name)
	defer unlock()

	if !m.artifacts.Exists(name) {
		return fmt.Errorf("%w: deployment %s", ErrNotFound, name)
	}

	// The registry row may already be gone or rewritten; that must not
	// block removal of the directory.
	if err := m.clearRegistryRef(name); err != nil {
		m.logger.Warn().Err(err).Str("deployment", name).Msg("failed to clear registry reference")
	}

	if err := m.artifacts.Remove(name); err != nil {
		return err
	}

	m.healthMu.Lock()
	delete(m.healthCache, name)
	m.healthMu.Unlock()

	metrics.UndeploysTotal.Inc()
	m.broker.Publish(&events.Event{
		ID:       uuid.New().String(),
		Type:     events.EventDeploymentRemoved,
		Message:  fmt.Sprintf("deployment %s removed", name),
		Metadata: map[string]string{"deployment": name},
	})

	m.logger.Info().Str("deployment", name).Msg("deployment removed")
	return nil
}

func (m *Manager) clearRegistryRef(name string) error {
	models, err := m.store.ListModels()
	if err != nil {
		return err
	}
	for _, model := range models {
		if model.Deployment == nil || model.Deployment.Name != name {
			continue
		}
		model.Deployment = nil
		model.Active = false
		model.UpdatedAt = time.Now()
		return m.store.UpdateModel(model)
	}
	return nil
}

// RegisterServing records the health endpoint of a live serving process
// for a deployment. Subsequent probes hit the endpoint over HTTP instead
// of running the health-check script; an empty URL reverts to script
// probes. The stale verdict is dropped so the next probe uses the new
// checker.
func (m *Manager) RegisterServing(ctx context.Context, name, healthURL string) (*types.DeploymentConfig, error) {
	if healthURL != "" {
		u, err := url.Parse(healthURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: health_url must be an http(s) URL", ErrValidation)
		}
	}

	unlock := m.lockName(name)
	defer unlock()

	if !m.artifacts.Exists(name) {
		return nil, fmt.Errorf("%w: deployment %s", ErrNotFound, name)
	}

	dir := m.artifacts.Path(name)
	cfg, err := artifact.ReadConfig(dir)
	if err != nil {
		return nil, err
	}
	cfg.ServingConfig.HealthURL = healthURL
	if err := artifact.WriteConfig(dir, cfg); err != nil {
		return nil, err
	}

	m.healthMu.Lock()
	delete(m.healthCache, name)
	m.healthMu.Unlock()

	m.logger.Info().Str("deployment", name).Str("health_url", healthURL).Msg("serving endpoint registered")
	return cfg, nil
}

// HealthCheck probes one deployment and records the verdict. Probe
// degradation (timeout, bad output) is reported in the verdict, not as an
// error; only a missing deployment fails.
func (m *Manager) HealthCheck(ctx context.Context, name string) (types.HealthVerdict, error) {
	if !m.artifacts.Exists(name) {
		return types.HealthVerdict{}, fmt.Errorf("%w: deployment %s", ErrNotFound, name)
	}
	return m.probe(ctx, name), nil
}

func (m *Manager) probe(ctx context.Context, name string) types.HealthVerdict {
	checker := m.checkerFn(name, m.artifacts.Path(name))
	result := checker.Check(ctx)

	metrics.HealthChecksTotal.WithLabelValues(result.Verdict.Status).Inc()
	metrics.HealthCheckDuration.Observe(result.Duration.Seconds())

	m.RecordHealth(name, result.Verdict)
	return result.Verdict
}

// RecordHealth stores the latest probe verdict for a deployment. The
// background monitor feeds this so listings don't fork a subprocess per
// entry.
func (m *Manager) RecordHealth(name string, verdict types.HealthVerdict) {
	m.healthMu.Lock()
	m.healthCache[name] = verdict
	m.healthMu.Unlock()
}

// LastHealth returns the cached verdict for a deployment, if any
func (m *Manager) LastHealth(name string) (types.HealthVerdict, bool) {
	m.healthMu.RLock()
	defer m.healthMu.RUnlock()
	v, ok := m.healthCache[name]
	return v, ok
}

func (m *Manager) verdictFor(ctx context.Context, name string) types.HealthVerdict {
	if v, ok := m.LastHealth(name); ok {
		return v
	}
	return m.probe(ctx, name)
}

func buildConfig(name, path string, model *types.ModelRegistryEntry, session *types.TrainingSession, files types.ModelFiles) *types.DeploymentConfig {
	return &types.DeploymentConfig{
		DeploymentName: name,
		DeploymentPath: path,
		CreatedAt:      time.Now().UTC(),
		ModelInfo: types.ModelInfo{
			ID:          model.ID,
			Name:        model.Name,
			ServiceType: model.ServiceType,
			Version:     model.Version,
			ModelType:   model.ModelType,
			Framework:   model.Framework,
		},
		TrainingInfo: types.TrainingInfo{
			SessionID:    session.ID,
			Accuracy:     session.Accuracy,
			TrainingTime: session.TrainingTime,
			DataSize:     session.DataSize,
			CompletedAt:  session.CompletedAt,
		},
		ServingConfig: types.ServingConfig{
			Endpoint:              fmt.Sprintf("/api/ml/%s/predict", model.ServiceType),
			MaxConcurrentRequests: 10,
			TimeoutSeconds:        30,
			CachePredictions:      true,
			CacheTTL:              300,
		},
		ModelFiles: files,
		Environment: types.Environment{
			PythonVersion:    "3.11",
			RequiredPackages: codegen.RequiredPackages(model.Framework),
		},
		Monitoring: types.Monitoring{
			HealthCheckEndpoint: fmt.Sprintf("/v1/deployments/%s/health", name),
			MetricsEndpoint:     "/metrics",
			LogLevel:            "INFO",
		},
	}
}

// primaryModelFile picks the artifact the serving class loads first
func primaryModelFile(session *types.TrainingSession) string {
	if p, ok := session.ArtifactPaths["model"]; ok {
		return filepath.Base(p)
	}
	// Fall back to the lexically first artifact
	var keys []string
	for k := range session.ArtifactPaths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		return filepath.Base(session.ArtifactPaths[keys[0]])
	}
	return "model.pkl"
}
