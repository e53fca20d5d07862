package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		wantLevel   zap.AtomicLevel
		wantErr     bool
	}{
		{name: "default level", level: "", wantLevel: zap.NewAtomicLevelAt(zap.InfoLevel)},
		{name: "debug production", level: "debug", wantLevel: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{name: "warn development", level: "warn", development: true, wantLevel: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{name: "invalid level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.development)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid log level")
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel.Level()))
			if tt.wantLevel.Level() > zap.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel.Level()-1))
			}
		})
	}
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must("info", false) })
	assert.Panics(t, func() { Must("loud", false) })
}
