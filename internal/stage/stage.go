// Package stage marshals run constants across the process boundary. It
// writes a side-channel payload file holding the flattened constant values
// and emits the Eidos definitions the engine needs to rebuild each constant
// with its original shape before the model starts.
package stage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/vk/slimwrapgo/internal/ctxlog"
	"github.com/vk/slimwrapgo/internal/eidos"
)

// DictName is the reserved identifier the payload dictionary is bound to
// inside the engine. Constants must not use it as a key.
const DictName = "SLIM_WRAP_PARAMS"

// Staging holds one staged payload file and the definitions that consume it.
// The caller owns the lifecycle: create with Stage, pass Defs to the engine,
// then Remove on every exit path.
type Staging struct {
	// PayloadPath is the temporary payload file.
	PayloadPath string

	// Defs are the definitions to pass via the engine's -d flag, in order:
	// the dictionary binding first, then one extraction per key. Order
	// matters because the engine consumes definitions left to right.
	Defs []string
}

// Stage validates the constants, writes the payload file, and assembles the
// definition sequence. Validation happens before any file I/O, so a
// rejected mapping leaves nothing behind. Per-key definitions are emitted
// in sorted key order for a deterministic command line.
func Stage(ctx context.Context, constants map[string]eidos.Value) (*Staging, error) {
	if len(constants) == 0 {
		return nil, fmt.Errorf("no constants to stage")
	}
	if _, ok := constants[DictName]; ok {
		return nil, fmt.Errorf("constant key %q collides with the reserved payload dictionary name", DictName)
	}

	keys := make([]string, 0, len(constants))
	payload := make(map[string]any, len(constants))
	for k, v := range constants {
		keys = append(keys, k)
		payload[k] = v.Flattened()
	}
	sort.Strings(keys)

	f, err := os.CreateTemp("", "slimwrap-params-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create payload file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write payload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write payload file: %w", err)
	}

	defs := make([]string, 0, len(keys)+1)
	defs = append(defs, fmt.Sprintf("%s = Dictionary(readFile('%s'));", DictName, f.Name()))
	for _, k := range keys {
		defs = append(defs, binding(k, constants[k]))
	}

	return &Staging{PayloadPath: f.Name(), Defs: defs}, nil
}

// binding renders the definition that pulls one constant back out of the
// payload dictionary. Matrices are rebuilt with their original shape; the
// payload itself only carries the row-major flattened elements.
func binding(key string, v eidos.Value) string {
	if v.IsMatrix() {
		rows, cols := v.Dims()
		return fmt.Sprintf("%s=matrix(%s.getValue('%s'), nrow=%d, ncol=%d, byrow=T);", key, DictName, key, rows, cols)
	}
	return fmt.Sprintf("%s=%s.getValue('%s');", key, DictName, key)
}

// InlineDefs renders constants as self-contained literal definitions with
// no side-channel file, in sorted key order. Useful when the engine should
// not read extra files; large vectors are better served by Stage.
func InlineDefs(constants map[string]eidos.Value) []string {
	keys := make([]string, 0, len(constants))
	for k := range constants {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	defs := make([]string, 0, len(keys))
	for _, k := range keys {
		defs = append(defs, eidos.Encode(k, constants[k])+";")
	}
	return defs
}

// Remove deletes the payload file. Removal failure never escalates: the run
// outcome is already decided by the time cleanup happens, so a leftover
// file is only residue worth a warning.
func (s *Staging) Remove(ctx context.Context) {
	if err := os.Remove(s.PayloadPath); err != nil && !os.IsNotExist(err) {
		ctxlog.FromContext(ctx).Warn("Could not delete temporary parameter file.", "path", s.PayloadPath, "error", err)
	}
}
