package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/core/database"
	"taskboard/internal/domain"
)

func TestOpen_Memory(t *testing.T) {
	s, err := Open(database.Opts{Driver: "memory"}, true)
	require.NoError(t, err)
	assert.Nil(t, s.DB)
	assert.IsType(t, &MemoryUserRepo{}, s.Users)
	assert.IsType(t, &MemoryTaskRepo{}, s.Tasks)
	assert.NoError(t, s.Close())
}

func TestOpen_SqliteMigrates(t *testing.T) {
	s, err := Open(database.Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"}, true)
	require.NoError(t, err)
	defer s.Close()

	require.NotNil(t, s.DB)
	n, err := s.Tasks.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, s.DB.Migrator().HasTable(&domain.User{}))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(database.Opts{Driver: "oracle"}, false)
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}
