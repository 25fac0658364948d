package database

import (
	"errors"
	"sync"
)

// ErrNotInitialized is returned when no storage backend was registered.
var ErrNotInitialized = errors.New("database not initialized, set DATABASE_URL")

var (
	postgresRecorder    func() Recorder
	postgresInitialized bool
	providerMu          sync.RWMutex
)

// RegisterPostgresBackend registers the PostgreSQL recorder constructor.
// This is called by the postgres package to avoid import cycles.
func RegisterPostgresBackend(recorder func() Recorder) {
	providerMu.Lock()
	defer providerMu.Unlock()
	postgresRecorder = recorder
	postgresInitialized = recorder != nil
}

// IsInitialized returns whether the PostgreSQL backend has been initialized.
func IsInitialized() bool {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return postgresInitialized
}

// GetRecorder returns a Recorder from the PostgreSQL backend
func GetRecorder() (Recorder, error) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	if !postgresInitialized {
		return nil, ErrNotInitialized
	}
	return postgresRecorder(), nil
}
