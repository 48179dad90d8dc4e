package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, dsn string) {
	t.Helper()
	data := []byte("machine: mill\nendpoints:\n  - service: status\n    dsn: " + dsn + "\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestWatcher_ReportsEndpointChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mksync.yaml")
	writeConfig(t, path, "tcp://cnc:6201")

	initial, err := Load(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, initial.Endpoints, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		dsns []string
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(cfg *Config) {
			mu.Lock()
			defer mu.Unlock()
			dsns = append(dsns, cfg.Endpoints[0].DSN)
		})
	}()

	// Same endpoints: no report.
	writeConfig(t, path, "tcp://cnc:6201")
	// Invalid file: ignored.
	require.NoError(t, os.WriteFile(path, []byte("machine: [\n"), 0o644))
	// New endpoint: reported.
	writeConfig(t, path, "tcp://cnc2:6201")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(dsns) > 0
	}, 5*time.Second, 10*time.Millisecond)

	// Writes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	for _, dsn := range dsns {
		assert.Equal(t, "tcp://cnc2:6201", dsn)
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "mksync.yaml"), nil, nil)
	assert.Error(t, err)
}
