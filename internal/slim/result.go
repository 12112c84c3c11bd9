package slim

import "time"

// Result captures one engine execution. Immutable once produced.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte

	// Stderr is the captured standard error.
	Stderr []byte

	// ExitCode is the engine process exit code. 0 is success.
	ExitCode int

	// Duration is the wall-clock time the engine process took.
	Duration time.Duration
}
