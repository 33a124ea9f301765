package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ordercore", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "memory", cfg.Journal.Backend)
	assert.Equal(t, 25, cfg.Journal.Relational.MaxOpenConns)
	assert.True(t, cfg.Journal.Retry.Enabled)
	assert.Equal(t, 3, cfg.Journal.Retry.MaxAttempts)
	assert.Equal(t, []string{"localhost"}, cfg.Journal.WideColumn.Hosts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestRelationalConfig_DSN(t *testing.T) {
	cfg := RelationalConfig{
		Host:     "db.internal",
		Port:     "3306",
		Username: "ordercore",
		Password: "secret",
		Database: "ordercore",
	}

	assert.Equal(t, "ordercore:secret@tcp(db.internal:3306)/ordercore?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}

func TestConfig_IsDevelopmentAndIsProduction(t *testing.T) {
	dev := &Config{App: AppConfig{Env: "development"}}
	prod := &Config{App: AppConfig{Env: "production"}}

	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())
}
