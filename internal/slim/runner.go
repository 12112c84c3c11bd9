package slim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultBinary is the engine binary name resolved on PATH when no other
// binary is configured.
const DefaultBinary = "slim"

// Runner invokes the external engine. Implementations never retry; a
// failure surfaces to the caller as-is.
type Runner interface {
	// Validate runs the engine's syntax check against the script at path.
	// A non-zero exit becomes a *ValidationError carrying the engine's
	// diagnostic text verbatim.
	Validate(ctx context.Context, path string) error

	// Execute runs the engine with the given arguments and captures its
	// output. When check is true a non-zero exit becomes a *ExecError; when
	// false the Result is returned unconditionally, non-zero status
	// included. The Result is non-nil whenever the process ran at all, even
	// alongside an error.
	Execute(ctx context.Context, args []string, check bool) (*Result, error)
}

// ValidationError reports a failed engine syntax check.
type ValidationError struct {
	Path        string
	Diagnostics string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("SLiM model check failed:\n%s", e.Diagnostics)
}

// ExecError reports an engine run that exited non-zero under check mode.
type ExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("SLiM exited with code %d:\n%s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

// CmdRunner is the production Runner: it shells out to the engine binary
// with captured stdout and stderr. Context cancellation kills the
// subprocess; no other cancellation mechanism exists at this layer.
type CmdRunner struct {
	// Binary is the engine executable, resolved on PATH if not absolute.
	Binary string
}

// NewCmdRunner returns a CmdRunner for the given binary, defaulting to
// DefaultBinary when empty.
func NewCmdRunner(binary string) *CmdRunner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &CmdRunner{Binary: binary}
}

// Validate implements Runner using the engine's -c check mode.
func (r *CmdRunner) Validate(ctx context.Context, path string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, "-c", path)
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ValidationError{Path: path, Diagnostics: strings.TrimSpace(stderr.String())}
	}
	return fmt.Errorf("failed to invoke %s: %w", r.Binary, err)
}

// Execute implements Runner.
func (r *CmdRunner) Execute(ctx context.Context, args []string, check bool) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The process never ran (binary missing, context cancelled before
		// start), so there is no status to report.
		return nil, fmt.Errorf("failed to invoke %s: %w", r.Binary, err)
	}

	result.ExitCode = exitErr.ExitCode()
	if !check {
		return result, nil
	}
	return result, &ExecError{Args: args, ExitCode: result.ExitCode, Stderr: stderr.String()}
}
