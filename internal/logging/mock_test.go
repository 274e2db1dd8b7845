package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerCapturesEntries(t *testing.T) {
	logger := &MockLogger{}
	logger.Info("hello", Field{Key: "k", Value: "v"})

	require.Len(t, logger.Entries, 1)
	assert.Equal(t, "INFO", logger.Entries[0].Level)
	assert.True(t, logger.HasMessage("hello"))
	assert.False(t, logger.HasMessage("goodbye"))
}

func TestMockLoggerDerivedEntriesReachRoot(t *testing.T) {
	logger := &MockLogger{}
	boom := errors.New("boom")

	logger.WithError(boom).Warn("pattern rejected")
	logger.WithFields(Field{Key: "rule", Value: "kplc"}).Debug("rule loaded")
	logger.WithError(boom).WithField("rule", "kplc").Error("rule failed")

	require.Len(t, logger.Entries, 3)
	assert.True(t, logger.HasMessage("pattern rejected"))
	assert.True(t, logger.HasMessage("rule loaded"))
	assert.True(t, logger.HasMessage("rule failed"))
	assert.Equal(t, boom, logger.Entries[0].Error)
	require.Len(t, logger.Entries[2].Fields, 1)
	assert.Equal(t, "rule", logger.Entries[2].Fields[0].Key)
}
