package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := New("warn", format)
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "console")
	assert.Error(t, err)
}
