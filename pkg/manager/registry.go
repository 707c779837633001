package manager

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hangarhq/hangar/pkg/events"
	"github.com/hangarhq/hangar/pkg/storage"
	"github.com/hangarhq/hangar/pkg/types"
)

// Registry and training-session operations. These wrap the store so API
// and CLI callers never touch storage directly.

// RegisterModel adds a model family to the registry
func (m *Manager) RegisterModel(model *types.ModelRegistryEntry) error {
	if model.Name == "" {
		return fmt.Errorf("%w: model name is required", ErrValidation)
	}
	if model.ServiceType == "" {
		return fmt.Errorf("%w: service_type is required", ErrValidation)
	}
	if model.ID == "" {
		model.ID = uuid.New().String()
	}
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now

	if err := m.store.CreateModel(model); err != nil {
		return err
	}

	m.broker.Publish(&events.Event{
		ID:      uuid.New().String(),
		Type:    events.EventModelRegistered,
		Message: fmt.Sprintf("model %s registered", model.Name),
		Metadata: map[string]string{
			"model_id":     model.ID,
			"service_type": string(model.ServiceType),
		},
	})
	return nil
}

// GetModel returns a registry entry by ID
func (m *Manager) GetModel(id string) (*types.ModelRegistryEntry, error) {
	model, err := m.store.GetModel(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: model %s", ErrNotFound, id)
	}
	return model, err
}

// GetModelByName returns a registry entry by name
func (m *Manager) GetModelByName(name string) (*types.ModelRegistryEntry, error) {
	model, err := m.store.GetModelByName(name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: model %s", ErrNotFound, name)
	}
	return model, err
}

// ListModels returns all registry entries
func (m *Manager) ListModels() ([]*types.ModelRegistryEntry, error) {
	return m.store.ListModels()
}

// CreateSession records a training session
func (m *Manager) CreateSession(session *types.TrainingSession) error {
	if session.ModelID == "" {
		return fmt.Errorf("%w: model_id is required", ErrValidation)
	}
	if _, err := m.GetModel(session.ModelID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: unknown model %s", ErrValidation, session.ModelID)
		}
		return err
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.Status == "" {
		session.Status = types.SessionStatusPending
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}

	if err := m.store.CreateSession(session); err != nil {
		return err
	}

	m.broker.Publish(&events.Event{
		ID:      uuid.New().String(),
		Type:    events.EventSessionCreated,
		Message: fmt.Sprintf("training session %s created", session.ID),
		Metadata: map[string]string{
			"session_id": session.ID,
			"model_id":   session.ModelID,
		},
	})
	return nil
}

// SessionResult carries the outcome of a finished training run
type SessionResult struct {
	Accuracy      float64           `json:"accuracy"`
	TrainingTime  float64           `json:"training_time"`
	DataSize      int64             `json:"data_size"`
	ArtifactPaths map[string]string `json:"artifact_paths"`
}

// CompleteSession marks a session completed and records its artifacts
func (m *Manager) CompleteSession(id string, result SessionResult) (*types.TrainingSession, error) {
	session, err := m.GetSession(id)
	if err != nil {
		return nil, err
	}
	if session.Status == types.SessionStatusCompleted {
		return nil, fmt.Errorf("%w: training session %s is already completed", ErrValidation, id)
	}
	if len(result.ArtifactPaths) == 0 {
		return nil, fmt.Errorf("%w: artifact_paths is required", ErrValidation)
	}

	session.Status = types.SessionStatusCompleted
	session.Accuracy = result.Accuracy
	session.TrainingTime = result.TrainingTime
	session.DataSize = result.DataSize
	session.ArtifactPaths = result.ArtifactPaths
	session.CompletedAt = time.Now()

	if err := m.store.UpdateSession(session); err != nil {
		return nil, err
	}

	m.broker.Publish(&events.Event{
		ID:      uuid.New().String(),
		Type:    events.EventSessionCompleted,
		Message: fmt.Sprintf("training session %s completed", session.ID),
		Metadata: map[string]string{
			"session_id": session.ID,
			"model_id":   session.ModelID,
		},
	})
	return session, nil
}

// GetSession returns a training session by ID
func (m *Manager) GetSession(id string) (*types.TrainingSession, error) {
	session, err := m.store.GetSession(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: training session %s", ErrNotFound, id)
	}
	return session, err
}

// ListSessions returns all training sessions
func (m *Manager) ListSessions() ([]*types.TrainingSession, error) {
	return m.store.ListSessions()
}

// ListSessionsByModel returns the sessions recorded for one model
func (m *Manager) ListSessionsByModel(modelID string) ([]*types.TrainingSession, error) {
	return m.store.ListSessionsByModel(modelID)
}
