package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5100", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Mode)

	assert.False(t, cfg.Mongo.Enabled)
	assert.Equal(t, "culinaryai", cfg.Mongo.Database)
	assert.Equal(t, "dishes", cfg.Mongo.Collection)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Auth.Enabled)

	assert.Equal(t, 98, cfg.Engine.RecencyThreshold)
	assert.Equal(t, 4, cfg.Engine.ReferenceServings)
	assert.Equal(t, 5, cfg.Engine.DefaultCount)

	assert.Equal(t, "./data", cfg.Catalog.DataDir)
	assert.Equal(t, "meals.csv", cfg.Catalog.CSVFile)
	assert.Contains(t, cfg.Catalog.FestivalDishes, "diwali")
	assert.Contains(t, cfg.Catalog.FestivalDishes["diwali"], "Laddoo")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("ENGINE_RECENCY_THRESHOLD", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Engine.RecencyThreshold)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("ENGINE_DEFAULT_COUNT", "0")

	_, err := Load()
	assert.Error(t, err)
}
