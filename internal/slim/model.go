package slim

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/vk/slimwrapgo/internal/ctxlog"
	"github.com/vk/slimwrapgo/internal/eidos"
	"github.com/vk/slimwrapgo/internal/stage"
)

// Seed bounds accepted by the engine's -s flag. The upper bound matches
// the range generated seeds are drawn from; confirm against the engine
// before widening.
const (
	MinSeed int64 = 1
	MaxSeed int64 = math.MaxUint32
)

// ErrClosed is returned by Run after the model has been closed.
var ErrClosed = errors.New("model is closed")

// Model owns one validated copy of a SLiM script in an exclusively-owned
// temporary file. The file exists and is syntactically valid for the whole
// lifetime of the Model; callers must Close the model to release it.
//
// A Model is safe for use from a single goroutine; independent Models may
// run concurrently since each owns its own temporary files.
type Model struct {
	runner     Runner
	source     string
	path       string
	closed     bool
	lastSeed   int64
	lastResult *Result
}

// NewModelFromCode persists the given script source to a temporary file and
// validates it. Construction fails, and the file is removed, if the engine
// rejects the script.
func NewModelFromCode(ctx context.Context, runner Runner, code string) (*Model, error) {
	return newModel(ctx, runner, code)
}

// NewModelFromFile reads the script at path and behaves like
// NewModelFromCode. The original file is never touched again; the model
// works from its own copy.
func NewModelFromFile(ctx context.Context, runner Runner, path string) (*Model, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model source %s: %w", path, err)
	}
	return newModel(ctx, runner, string(code))
}

func newModel(ctx context.Context, runner Runner, code string) (*Model, error) {
	if runner == nil {
		runner = NewCmdRunner("")
	}

	f, err := os.CreateTemp("", "slimwrap-model-*.slim")
	if err != nil {
		return nil, fmt.Errorf("failed to create model file: %w", err)
	}
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write model file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write model file: %w", err)
	}

	if err := runner.Validate(ctx, f.Name()); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Model validated.", "path", f.Name())

	return &Model{runner: runner, source: code, path: f.Name()}, nil
}

// RunOptions configures one engine run. The zero value runs with a freshly
// generated seed, no constants, and fail-fast behavior.
type RunOptions struct {
	// Seed is the explicit engine seed. Nil draws a uniform seed from
	// [MinSeed, MaxSeed]. An explicit seed outside that range is rejected
	// before the engine is launched.
	Seed *int64

	// Constants are injected into the model's namespace for this run only.
	Constants map[string]eidos.Value

	// Inline passes constants as literal expressions instead of staging
	// them through a payload file.
	Inline bool

	// NoCheck suppresses fail-fast: a non-zero engine exit returns the
	// Result instead of an error.
	NoCheck bool

	// Rand is the seed source used when Seed is nil. Nil falls back to the
	// shared process generator; inject a seeded *rand.Rand for
	// deterministic seed sequences in tests.
	Rand *rand.Rand
}

// Run executes the model once and blocks until the engine exits. The most
// recent Result is retained on the handle. Whatever the outcome, the
// staged payload file is removed before Run returns.
func (m *Model) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if m.closed {
		return nil, ErrClosed
	}

	seed, err := resolveSeed(opts)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("model", m.path, "seed", seed)

	// The engine consumes -d definitions left to right, so the payload
	// dictionary must come before the per-key extractions, and everything
	// before the script path.
	args := []string{"-s", strconv.FormatInt(seed, 10)}
	if len(opts.Constants) > 0 {
		defs, cleanup, err := m.stageConstants(ctx, opts)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		for _, d := range defs {
			args = append(args, "-d", d)
		}
	}
	args = append(args, m.path)

	logger.Debug("Launching engine.", "args", args)
	result, err := m.runner.Execute(ctx, args, !opts.NoCheck)
	if result != nil {
		m.lastSeed = seed
		m.lastResult = result
	}
	if err != nil {
		return result, err
	}
	logger.Debug("Engine finished.", "exit_code", result.ExitCode, "duration", result.Duration)
	return result, nil
}

// stageConstants prepares the -d definitions for a run, returning a cleanup
// function that releases any staged payload file.
func (m *Model) stageConstants(ctx context.Context, opts RunOptions) ([]string, func(), error) {
	if opts.Inline {
		if _, ok := opts.Constants[stage.DictName]; ok {
			return nil, nil, fmt.Errorf("constant key %q collides with the reserved payload dictionary name", stage.DictName)
		}
		return stage.InlineDefs(opts.Constants), func() {}, nil
	}
	st, err := stage.Stage(ctx, opts.Constants)
	if err != nil {
		return nil, nil, err
	}
	return st.Defs, func() { st.Remove(ctx) }, nil
}

// resolveSeed picks the run seed from the options.
func resolveSeed(opts RunOptions) (int64, error) {
	if opts.Seed != nil {
		s := *opts.Seed
		if s < MinSeed || s > MaxSeed {
			return 0, fmt.Errorf("seed %d is outside the supported range [%d, %d]", s, MinSeed, MaxSeed)
		}
		return s, nil
	}
	span := MaxSeed - MinSeed + 1
	if opts.Rand != nil {
		return MinSeed + opts.Rand.Int64N(span), nil
	}
	return MinSeed + rand.Int64N(span), nil
}

// Close removes the model's temporary file. It is idempotent; a missing
// file is not an error since the handle is being discarded either way.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Source returns the stored model source text.
func (m *Model) Source() string { return m.source }

// Path returns the model's temporary script file path.
func (m *Model) Path() string { return m.path }

// LastSeed returns the seed used by the most recent run.
func (m *Model) LastSeed() int64 { return m.lastSeed }

// LastResult returns the most recent run's Result, or nil before any run.
func (m *Model) LastResult() *Result { return m.lastResult }
