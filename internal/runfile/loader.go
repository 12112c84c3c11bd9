package runfile

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/slimwrapgo/internal/ctxlog"
	"github.com/vk/slimwrapgo/internal/eidos"
)

// Load parses and decodes one run file, validating every model block.
func Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading run file.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	if len(file.Models) == 0 {
		return nil, fmt.Errorf("%s declares no model blocks", path)
	}
	for _, mb := range file.Models {
		if err := mb.validate(); err != nil {
			return nil, fmt.Errorf("%s: model %q: %w", path, mb.Name, err)
		}
	}
	logger.Debug("Run file loaded.", "models", len(file.Models))
	return &file, nil
}

// validate enforces the exactly-one-of source/code rule at decode time, so
// an ambiguous model block never reaches the engine.
func (mb *ModelBlock) validate() error {
	if mb.Source != "" && mb.Code != "" {
		return fmt.Errorf("either source or code can be provided, not both")
	}
	if mb.Source == "" && mb.Code == "" {
		return fmt.Errorf("either source or code must be provided")
	}
	return nil
}

// EvalConstants evaluates the model's constants block into typed values.
// Every attribute expression must be a constant: no variables or functions
// are in scope inside a run file.
func (mb *ModelBlock) EvalConstants(ctx context.Context) (map[string]eidos.Value, error) {
	if mb.Constants == nil {
		return nil, nil
	}

	attrs, diags := mb.Constants.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode constants for model %q: %w", mb.Name, diags)
	}

	// Evaluate in name order so any error reported is deterministic.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]eidos.Value, len(attrs))
	for _, name := range names {
		attr := attrs[name]
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate constant %q: %w", name, diags)
		}
		ev, err := eidos.FromCty(val)
		if err != nil {
			return nil, fmt.Errorf("constant %q (%s): %w", name, attr.Range, err)
		}
		out[name] = ev
	}
	return out, nil
}
