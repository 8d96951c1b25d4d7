package jwtinspect

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)

	logger := NewLogrusLogger(base)

	logger.Debug("debug message", "key", "value")
	assert.Empty(t, hook.AllEntries(), "Debug message should not be recorded at Info level")

	logger.Info("info message", "count", 2)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "info message", hook.LastEntry().Message)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, logrus.Fields{"count": 2}, hook.LastEntry().Data)

	logger.Warn("warn message", "error", errors.New("boom"), "path", "/api")
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, logrus.Fields{"error": "boom", "path": "/api"}, hook.LastEntry().Data)

	logger.Error("error message", "dangling")
	require.Len(t, hook.AllEntries(), 3)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, logrus.Fields{"!BADKEY": "dangling"}, hook.LastEntry().Data)
}

func Test_fieldsOf(t *testing.T) {
	assert.Equal(t, logrus.Fields{}, fieldsOf(nil))
	assert.Equal(t, logrus.Fields{"1": "one", "a": true}, fieldsOf([]any{1, "one", "a", true}))
}
