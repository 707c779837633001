/*
Package storage provides BoltDB-backed persistence for hangar's registry
state.

The storage package implements the Store interface using BoltDB,
providing ACID transactions for the model registry and training-session
records. All data is serialized as JSON and stored in separate buckets.
Deployment directories themselves are NOT stored here; the filesystem is
the source of truth for deployments, and this database only holds the
registry that points at them.

# Architecture

	┌──────────────── BOLTDB STORAGE ─────────────────┐
	│                                                  │
	│  ┌────────────────────────────────┐              │
	│  │          BoltStore             │              │
	│  │  - File: <dataDir>/hangar.db   │              │
	│  │  - Transactions: ACID + fsync  │              │
	│  └──────────────┬─────────────────┘              │
	│                 │                                 │
	│  ┌──────────────▼─────────────────┐              │
	│  │        Bucket Structure        │              │
	│  │  ┌──────────────────────────┐  │              │
	│  │  │ models    (Model ID)     │  │              │
	│  │  │ sessions  (Session ID)   │  │              │
	│  │  └──────────────────────────┘  │              │
	│  └──────────────┬─────────────────┘              │
	│                 │                                 │
	│  ┌──────────────▼─────────────────┐              │
	│  │     JSON Serialization         │              │
	│  │  - Marshal on write            │              │
	│  │  - Unmarshal on read           │              │
	│  └────────────────────────────────┘              │
	└──────────────────────────────────────────────────┘

# Core Components

BoltStore:
  - Implements Store using a single database file
  - Automatic bucket creation on initialization
  - Thread-safe via BoltDB's transaction model

Buckets:
  - models: ModelRegistryEntry records keyed by ID
  - sessions: TrainingSession records keyed by ID

Transaction Model:
  - Reads: db.View() - concurrent, consistent snapshots
  - Writes: db.Update() - serialized, atomic commits

# Operations

Model operations follow a uniform CRUD shape: Create and Update are the
same upsert, Get returns ErrNotFound for a missing key, List scans the
bucket, Delete is idempotent. GetModelByName scans for a name match and
is O(n); registries are small enough that this never matters.

Session operations mirror the model operations, with
ListSessionsByModel filtering the full scan by model ID.

# Usage

	store, err := storage.NewBoltStore("/var/lib/hangar")
	if err != nil {
		return err
	}
	defer store.Close()

	model := &types.ModelRegistryEntry{ID: id, Name: "churn"}
	if err := store.CreateModel(model); err != nil {
		return err
	}

	got, err := store.GetModel(id)
	if errors.Is(err, storage.ErrNotFound) {
		// handle missing model
	}

# Error Handling

All lookup failures wrap ErrNotFound so callers can branch with
errors.Is without string matching. Every other error is an underlying
BoltDB or JSON failure and should be treated as fatal for the request.

# Data Integrity

  - Atomicity: all-or-nothing commits
  - Durability: fsync on commit, safe across crashes
  - The database is a single file; backup is a file copy while closed
  - New JSON fields are backward compatible via omitempty

# See Also

  - pkg/types for the persisted entities
  - pkg/manager for the operations layered on this store
  - BoltDB documentation: https://github.com/etcd-io/bbolt
*/
package storage
