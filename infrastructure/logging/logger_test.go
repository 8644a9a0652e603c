package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		for _, format := range []string{"json", "console"} {
			logger, err := New(env, "warn", format)
			require.NoError(t, err)
			assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
			assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
		}
	}
}
