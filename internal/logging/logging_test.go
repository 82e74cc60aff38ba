package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 7, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "logs", "toast.log")
			cleanup, err := Setup(Options{Verbosity: tt.verbosity, File: path})
			require.NoError(t, err)
			defer cleanup()

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			_, err = os.Stat(path)
			assert.NoError(t, err, "log file should exist")
		})
	}
}

func TestGetLoggerTagsComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toast.log")
	cleanup, err := Setup(Options{Verbosity: 1, File: path})
	require.NoError(t, err)

	l := GetLogger("registry")
	l.Info().Msg("hello")
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"component":"registry"`), string(b))
}

func TestSetupUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	cleanup, err := Setup(Options{File: filepath.Join(blocker, "toast.log")})
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	assert.NotPanics(t, cleanup)
	assert.NotPanics(t, func() {
		l := GetLogger("cli")
		l.Error().Msg("still usable")
	})
}

func TestSetupUnwritablePathFallsBackToConsole(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	cleanup, err := Setup(Options{Console: true, File: filepath.Join(blocker, "toast.log")})
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestDefaultFilePath(t *testing.T) {
	got := DefaultFilePath()
	assert.True(t, strings.HasSuffix(got, filepath.Join("toast", "toast.log")), got)
}
