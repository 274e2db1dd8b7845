package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, 0.8, cfg.Categorization.ConfidenceThreshold)
	assert.Equal(t, 5, cfg.Rules.CacheTTLMinutes)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "mpesa", cfg.Parser.Template)
	assert.Equal(t, "KES", cfg.Parser.Currency)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg, err := InitializeConfig()
		require.NoError(t, err)
		return cfg
	}

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "chatty"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("bad delimiter", func(t *testing.T) {
		cfg := valid()
		cfg.CSV.Delimiter = ";;"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("threshold out of range", func(t *testing.T) {
		cfg := valid()
		cfg.Categorization.ConfidenceThreshold = 1.5
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("zero cache ttl", func(t *testing.T) {
		cfg := valid()
		cfg.Rules.CacheTTLMinutes = 0
		assert.Error(t, validateConfig(cfg))
	})
}
