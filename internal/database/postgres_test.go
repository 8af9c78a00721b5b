package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runcoach/internal/config"
)

func TestNewPostgresDB_Unreachable(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "postgres",
		Password: "postgres",
		Database: "runcoach",
		SSLMode:  "disable",
	}

	db, err := NewPostgresDB(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
