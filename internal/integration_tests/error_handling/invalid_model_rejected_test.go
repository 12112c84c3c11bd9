package error_handling

import (
	"strings"
	"testing"

	"github.com/vk/slimwrapgo/internal/testutil"
)

// Test for: a model rejected by the engine's syntax check never runs
func TestErrorHandling_InvalidModel_FailsAtConstruction(t *testing.T) {
	// --- Arrange ---
	engine := testutil.RejectingEngine(t, "ERROR (Parse): unexpected token '{'")
	runFile := `
model "broken" {
  code = "initialize() {initializeMutationRate("
}
`

	// --- Act ---
	result := testutil.RunAppTest(t, map[string]string{"main.hcl": runFile}, engine)

	// --- Assert ---
	if result.Err == nil {
		t.Fatal("app run should have failed for an invalid model")
	}
	// The engine's diagnostic text surfaces verbatim.
	if !strings.Contains(result.Err.Error(), "unexpected token") {
		t.Errorf("error should carry the engine diagnostic, got: %v", result.Err)
	}
	if result.Stdout != "" {
		t.Errorf("nothing should have run, but stdout = %q", result.Stdout)
	}
}

// Test for: a missing source file fails before the engine is consulted
func TestErrorHandling_MissingSourceFile(t *testing.T) {
	// --- Arrange ---
	engine := testutil.OKEngine(t, "")
	runFile := `
model "ghost" {
  source = "does-not-exist.slim"
}
`

	// --- Act ---
	result := testutil.RunAppTest(t, map[string]string{"main.hcl": runFile}, engine)

	// --- Assert ---
	if result.Err == nil {
		t.Fatal("app run should have failed for a missing source file")
	}
	if !strings.Contains(result.Err.Error(), "does-not-exist.slim") {
		t.Errorf("error should name the missing file, got: %v", result.Err)
	}
}

// Test for: a run file naming both source and code is rejected before any
// engine work
func TestErrorHandling_AmbiguousModelBlock(t *testing.T) {
	// --- Arrange ---
	runFile := `
model "both" {
  source = "model.slim"
  code   = "initialize() {}"
}
`

	// --- Act ---
	result := testutil.RunAppTest(t, map[string]string{"main.hcl": runFile}, "/nonexistent/engine")

	// --- Assert ---
	if result.Err == nil {
		t.Fatal("app run should have failed for an ambiguous model block")
	}
	if !strings.Contains(result.Err.Error(), "not both") {
		t.Errorf("unexpected message: %v", result.Err)
	}
}
