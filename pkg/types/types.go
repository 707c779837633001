package types

import (
	"time"
)

// ModelRegistryEntry represents one trained model family in the registry
type ModelRegistryEntry struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ServiceType ServiceType       `json:"service_type"`
	ModelType   string            `json:"model_type"` // e.g. "random_forest", "distilbert"
	Framework   string            `json:"framework"`  // e.g. "sklearn", "transformers"
	Version     string            `json:"version"`
	Active      bool              `json:"active"`
	Config      map[string]string `json:"config,omitempty"`
	Deployment  *DeploymentRef    `json:"deployment,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// DeploymentRef marks a registry entry as deployed
type DeploymentRef struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	DeployedAt time.Time `json:"deployed_at"`
}

// ServiceType defines what kind of inference a model serves
type ServiceType string

const (
	ServiceTypePrediction     ServiceType = "prediction"
	ServiceTypeClassification ServiceType = "classification"
	ServiceTypeNLP            ServiceType = "nlp"
	ServiceTypeChatbot        ServiceType = "chatbot"
)

// TrainingSession represents one model-training run. It is created at
// training start, updated at completion, and is a read-only input to
// deployment.
type TrainingSession struct {
	ID            string            `json:"id"`
	ModelID       string            `json:"model_id"`
	Status        SessionStatus     `json:"status"`
	Accuracy      float64           `json:"accuracy"`
	TrainingTime  float64           `json:"training_time"` // seconds
	DataSize      int64             `json:"data_size"`     // training examples
	ArtifactPaths map[string]string `json:"artifact_paths"` // artifact type -> file path
	StartedAt     time.Time         `json:"started_at"`
	CompletedAt   time.Time         `json:"completed_at"`
	Error         string            `json:"error,omitempty"`
}

// SessionStatus represents the state of a training session
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

// DeploymentConfig is the on-disk descriptor written as
// deployment_config.json inside every deployment directory.
type DeploymentConfig struct {
	DeploymentName string        `json:"deployment_name"`
	DeploymentPath string        `json:"deployment_path"`
	CreatedAt      time.Time     `json:"created_at"`
	ModelInfo      ModelInfo     `json:"model_info"`
	TrainingInfo   TrainingInfo  `json:"training_info"`
	ServingConfig  ServingConfig `json:"serving_config"`
	ModelFiles     ModelFiles    `json:"model_files"`
	Environment    Environment   `json:"environment"`
	Monitoring     Monitoring    `json:"monitoring"`
}

// ModelInfo captures the registry entry a deployment was built from
type ModelInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ServiceType ServiceType `json:"service_type"`
	Version     string      `json:"version"`
	ModelType   string      `json:"model_type"`
	Framework   string      `json:"framework"`
}

// TrainingInfo captures the training session a deployment was built from
type TrainingInfo struct {
	SessionID    string    `json:"session_id"`
	Accuracy     float64   `json:"accuracy"`
	TrainingTime float64   `json:"training_time"`
	DataSize     int64     `json:"data_size"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ServingConfig controls how a deployment serves requests
type ServingConfig struct {
	Endpoint              string `json:"endpoint"`
	MaxConcurrentRequests int    `json:"max_concurrent_requests"`
	TimeoutSeconds        int    `json:"timeout_seconds"`
	CachePredictions      bool   `json:"cache_predictions"`
	CacheTTL              int    `json:"cache_ttl"`

	// HealthURL is the health endpoint of a live serving process, set
	// once one is registered for the deployment. When present, probes
	// hit it over HTTP instead of running the health-check script.
	HealthURL string `json:"health_url,omitempty"`
}

// ModelFiles accounts for the artifacts copied into a deployment
type ModelFiles struct {
	FilesCopied []CopiedFile `json:"files_copied"`
	ModelSizeMB float64      `json:"model_size_mb"`
}

// CopiedFile describes one artifact inside a deployment directory
type CopiedFile struct {
	Type   string  `json:"type"` // e.g. "model", "vectorizer", "label_encoder"
	Path   string  `json:"path"`
	SizeMB float64 `json:"size_mb"`
}

// Environment describes the runtime the generated scripts expect
type Environment struct {
	PythonVersion    string   `json:"python_version"`
	RequiredPackages []string `json:"required_packages"`
}

// Monitoring describes the observability surface of a deployment
type Monitoring struct {
	HealthCheckEndpoint string `json:"health_check_endpoint"`
	MetricsEndpoint     string `json:"metrics_endpoint"`
	LogLevel            string `json:"log_level"`
}

// Endpoint describes one REST route a deployed model serves
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// DeploymentSummary is one row of a deployment listing
type DeploymentSummary struct {
	Name        string      `json:"name"`
	ModelName   string      `json:"model_name"`
	ServiceType ServiceType `json:"service_type"`
	Version     string      `json:"version"`
	DeployedAt  time.Time   `json:"deployed_at"`
	IsHealthy   bool        `json:"is_healthy"`
	Path        string      `json:"path"`
	ModelSizeMB float64     `json:"model_size_mb"`
}

// HealthVerdict is the parsed outcome of one health-check probe
type HealthVerdict struct {
	Status      string    `json:"status"` // "healthy", "unhealthy", "unknown"
	ModelLoaded bool      `json:"model_loaded"`
	Deployment  string    `json:"deployment,omitempty"`
	Error       string    `json:"error,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Healthy reports whether the verdict counts as healthy
func (v HealthVerdict) Healthy() bool {
	return v.Status == "healthy"
}
