package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// StubEngine writes an executable shell script standing in for the slim
// binary and returns its path. Tests stay self-contained: no real engine
// install is ever required.
func StubEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slim")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

// OKEngine returns a stub engine that accepts every invocation, printing
// stdout on runs (but not on -c syntax checks).
func OKEngine(t *testing.T, stdout string) string {
	t.Helper()
	return StubEngine(t, fmt.Sprintf(`[ "$1" = "-c" ] && exit 0
printf '%%s' %s`, shellQuote(stdout)))
}

// RecordingEngine returns a stub engine that records its argv, one
// argument per line, into the returned file. The last invocation wins, so
// after a run the file holds the run argv rather than the check argv.
func RecordingEngine(t *testing.T) (bin string, argvPath string) {
	t.Helper()
	argvPath = filepath.Join(t.TempDir(), "argv.txt")
	bin = StubEngine(t, fmt.Sprintf(`printf '%%s\n' "$@" > %s
exit 0`, shellQuote(argvPath)))
	return bin, argvPath
}

// RejectingEngine returns a stub engine whose -c syntax check fails with
// the given diagnostic on stderr.
func RejectingEngine(t *testing.T, diagnostic string) string {
	t.Helper()
	return StubEngine(t, fmt.Sprintf(`if [ "$1" = "-c" ]; then
  printf '%%s\n' %s >&2
  exit 1
fi
exit 0`, shellQuote(diagnostic)))
}

// FailingEngine returns a stub engine that passes syntax checks but fails
// runs with the given exit code and stderr text.
func FailingEngine(t *testing.T, exitCode int, stderr string) string {
	t.Helper()
	return StubEngine(t, fmt.Sprintf(`[ "$1" = "-c" ] && exit 0
printf '%%s\n' %s >&2
exit %d`, shellQuote(stderr), exitCode))
}

// shellQuote single-quotes a string for safe interpolation into a shell
// script.
func shellQuote(s string) string {
	out := "'"
	for _, r := range s {
		if r == '\'' {
			out += `'\''`
			continue
		}
		out += string(r)
	}
	return out + "'"
}
