package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/hangarhq/hangar/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketModels   = []byte("models")
	bucketSessions = []byte("sessions")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "hangar.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketModels,
			bucketSessions,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Model operations
func (s *BoltStore) CreateModel(model *types.ModelRegistryEntry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModels)
		data, err := json.Marshal(model)
		if err != nil {
			return err
		}
		return b.Put([]byte(model.ID), data)
	})
}

func (s *BoltStore) GetModel(id string) (*types.ModelRegistryEntry, error) {
	var model types.ModelRegistryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModels)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("model %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &model)
	})
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (s *BoltStore) GetModelByName(name string) (*types.ModelRegistryEntry, error) {
	var found *types.ModelRegistryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModels)
		return b.ForEach(func(k, v []byte) error {
			var model types.ModelRegistryEntry
			if err := json.Unmarshal(v, &model); err != nil {
				return err
			}
			if model.Name == name {
				found = &model
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("model %s: %w", name, ErrNotFound)
	}
	return found, nil
}

func (s *BoltStore) ListModels() ([]*types.ModelRegistryEntry, error) {
	var models []*types.ModelRegistryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModels)
		return b.ForEach(func(k, v []byte) error {
			var model types.ModelRegistryEntry
			if err := json.Unmarshal(v, &model); err != nil {
				return err
			}
			models = append(models, &model)
			return nil
		})
	})
	return models, err
}

func (s *BoltStore) UpdateModel(model *types.ModelRegistryEntry) error {
	return s.CreateModel(model) // Same as create (upsert)
}

func (s *BoltStore) DeleteModel(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModels)
		return b.Delete([]byte(id))
	})
}

// Training session operations
func (s *BoltStore) CreateSession(session *types.TrainingSession) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		return b.Put([]byte(session.ID), data)
	})
}

func (s *BoltStore) GetSession(id string) (*types.TrainingSession, error) {
	var session types.TrainingSession
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("training session %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *BoltStore) ListSessions() ([]*types.TrainingSession, error) {
	var sessions []*types.TrainingSession
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		return b.ForEach(func(k, v []byte) error {
			var session types.TrainingSession
			if err := json.Unmarshal(v, &session); err != nil {
				return err
			}
			sessions = append(sessions, &session)
			return nil
		})
	})
	return sessions, err
}

func (s *BoltStore) ListSessionsByModel(modelID string) ([]*types.TrainingSession, error) {
	sessions, err := s.ListSessions()
	if err != nil {
		return nil, err
	}

	var filtered []*types.TrainingSession
	for _, session := range sessions {
		if session.ModelID == modelID {
			filtered = append(filtered, session)
		}
	}
	return filtered, nil
}

func (s *BoltStore) UpdateSession(session *types.TrainingSession) error {
	return s.CreateSession(session)
}

func (s *BoltStore) DeleteSession(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		return b.Delete([]byte(id))
	})
}
