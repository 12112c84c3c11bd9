package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/slimwrapgo/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Stdout    string
	Err       error
}

// RunAppTest provides a standardized harness for integration tests: it
// writes the given run files into a temp directory and runs the whole App
// against them with the given engine binary.
func RunAppTest(t *testing.T, files map[string]string, engineBinary string) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	cfg, err := app.NewConfig(app.Config{
		RunPath:      dir,
		EngineBinary: engineBinary,
		LogFormat:    "text",
		LogLevel:     "debug",
	})
	require.NoError(t, err)

	var logBuf SafeBuffer
	var outBuf bytes.Buffer
	testApp := app.NewApp(&outBuf, &logBuf, cfg)
	runErr := testApp.Run(context.Background())

	return &HarnessResult{
		LogOutput: logBuf.String(),
		Stdout:    outBuf.String(),
		Err:       runErr,
	}
}
