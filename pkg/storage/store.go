package storage

import (
	"errors"

	"github.com/hangarhq/hangar/pkg/types"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// Store defines the interface for registry state storage
// This is implemented by BoltDB-backed storage
type Store interface {
	// Models
	CreateModel(model *types.ModelRegistryEntry) error
	GetModel(id string) (*types.ModelRegistryEntry, error)
	GetModelByName(name string) (*types.ModelRegistryEntry, error)
	ListModels() ([]*types.ModelRegistryEntry, error)
	UpdateModel(model *types.ModelRegistryEntry) error
	DeleteModel(id string) error

	// Training sessions
	CreateSession(session *types.TrainingSession) error
	GetSession(id string) (*types.TrainingSession, error)
	ListSessions() ([]*types.TrainingSession, error)
	ListSessionsByModel(modelID string) ([]*types.TrainingSession, error)
	UpdateSession(session *types.TrainingSession) error
	DeleteSession(id string) error

	// Utility
	Close() error
}
