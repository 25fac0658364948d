package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/kozaktomas/pose-detector/internal/database"
)

func TestRegister(t *testing.T) {
	t.Cleanup(func() { database.RegisterPostgresBackend(nil) })

	Register(&Pool{})
	require.True(t, database.IsInitialized())

	rec, err := database.GetRecorder()
	require.NoError(t, err)
	assert.IsType(t, &JournalRepository{}, rec)
	assert.NoError(t, rec.Close(), "closing a pool without a connection is a no-op")
}

func TestInitialize_RequiresURL(t *testing.T) {
	_, err := Initialize(t.Context(), &config.DatabaseConfig{})
	assert.Error(t, err)
	assert.False(t, database.IsInitialized())
}
