package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = NewGorm(Opts{Driver: DriverMemory})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLite(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestMaskDSN(t *testing.T) {
	cases := map[string]string{
		"postgres://app:s3cret@db:5432/tasks?sslmode=disable": "postgres://app:****@db:5432/tasks?sslmode=disable",
		"app:s3cret@tcp(127.0.0.1:3306)/tasks":                "app:****@tcp(127.0.0.1:3306)/tasks",
		"postgres://app@db:5432/tasks":                        "postgres://app@db:5432/tasks",
		"file:tasks.db":                                       "file:tasks.db",
		"host=db user=app password=x dbname=tasks":            "host=db user=app password=x dbname=tasks",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskDSN(in), in)
	}
}
