package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// PollUntilTimeout calls f every interval until it returns true, failing the
// test once timeout elapses.
func PollUntilTimeout(t *testing.T, timeout, interval time.Duration, f func() bool) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if f() {
				return
			}
		case <-timer.C:
			t.Fatal("Timeout")
		}
	}
}

func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// LogDir creates a temporary directory holding the given files.
func LogDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, filepath.Join(dir, name), content)
	}
	return dir
}
