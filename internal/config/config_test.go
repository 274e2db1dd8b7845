package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("MPESA_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("MPESA_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MPESA_TEST_KEY_MISSING", "fallback"))
}

func TestConfigureLoggingLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	logger := ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestConfigureLoggingInvalidLevelDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "nonsense")
	logger := ConfigureLogging()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
