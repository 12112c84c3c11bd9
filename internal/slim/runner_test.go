package slim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStubEngine writes a shell script standing in for the engine binary.
func writeStubEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slim")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("writing stub engine: %v", err)
	}
	return path
}

func TestCmdRunner_Validate_OK(t *testing.T) {
	runner := NewCmdRunner(writeStubEngine(t, "exit 0"))
	if err := runner.Validate(context.Background(), "model.slim"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestCmdRunner_Validate_SurfacesDiagnostics(t *testing.T) {
	runner := NewCmdRunner(writeStubEngine(t, `echo "ERROR (Parse): unexpected token" >&2
exit 1`))

	err := runner.Validate(context.Background(), "model.slim")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if !strings.Contains(vErr.Diagnostics, "unexpected token") {
		t.Errorf("Diagnostics = %q, want the engine stderr verbatim", vErr.Diagnostics)
	}
}

func TestCmdRunner_Execute_CapturesOutput(t *testing.T) {
	runner := NewCmdRunner(writeStubEngine(t, `printf 'out'
printf 'err' >&2
exit 0`))

	result, err := runner.Execute(context.Background(), []string{"-s", "1"}, true)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if string(result.Stdout) != "out" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
	if string(result.Stderr) != "err" {
		t.Errorf("Stderr = %q", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d", result.ExitCode)
	}
}

func TestCmdRunner_Execute_CheckFailsFast(t *testing.T) {
	runner := NewCmdRunner(writeStubEngine(t, `echo 'simulation exploded' >&2
exit 3`))

	result, err := runner.Execute(context.Background(), nil, true)
	if err == nil {
		t.Fatal("expected an execution error")
	}
	var eErr *ExecError
	if !errors.As(err, &eErr) {
		t.Fatalf("error type = %T, want *ExecError", err)
	}
	if eErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", eErr.ExitCode)
	}
	if !strings.Contains(eErr.Stderr, "simulation exploded") {
		t.Errorf("Stderr = %q", eErr.Stderr)
	}
	// The captured Result still accompanies the error.
	if result == nil || result.ExitCode != 3 {
		t.Errorf("Result = %+v, want exit code 3", result)
	}
}

func TestCmdRunner_Execute_NoCheckReturnsResult(t *testing.T) {
	runner := NewCmdRunner(writeStubEngine(t, "exit 3"))

	result, err := runner.Execute(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("Execute with check=false: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestCmdRunner_MissingBinary(t *testing.T) {
	runner := NewCmdRunner(filepath.Join(t.TempDir(), "no-such-engine"))

	if err := runner.Validate(context.Background(), "model.slim"); err == nil {
		t.Error("Validate should fail for a missing binary")
	}
	result, err := runner.Execute(context.Background(), nil, false)
	if err == nil {
		t.Error("Execute should fail for a missing binary")
	}
	if result != nil {
		t.Error("no Result can exist when the process never ran")
	}
}

func TestNewCmdRunner_DefaultsBinary(t *testing.T) {
	if r := NewCmdRunner(""); r.Binary != DefaultBinary {
		t.Errorf("Binary = %q, want %q", r.Binary, DefaultBinary)
	}
}
