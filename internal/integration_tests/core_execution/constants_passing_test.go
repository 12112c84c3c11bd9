package core_execution

import (
	"os"
	"strings"
	"testing"

	"github.com/vk/slimwrapgo/internal/testutil"
)

// Test for: constants travel to the engine as -d definitions in the fixed
// order seed, dictionary, sorted key bindings, model path
func TestCoreExecution_Constants_ArgvProtocol(t *testing.T) {
	// --- Arrange ---
	engine, argvPath := testutil.RecordingEngine(t)
	runFile := `
model "params" {
  code = "initialize() {}"
  seed = 42

  constants {
    two_float = 2.0
    two_int   = 2
    yes       = true
    rates     = [2.3, 1.1, 1.0]
    grid      = [[1, 2], [3, 4]]
  }
}
`

	// --- Act ---
	result := testutil.RunAppTest(t, map[string]string{"main.hcl": runFile}, engine)

	// --- Assert ---
	if result.Err != nil {
		t.Fatalf("app run failed: %v\nlogs:\n%s", result.Err, result.LogOutput)
	}

	raw, err := os.ReadFile(argvPath)
	if err != nil {
		t.Fatalf("reading recorded argv: %v", err)
	}
	argv := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")

	if argv[0] != "-s" || argv[1] != "42" {
		t.Errorf("argv must lead with the explicit seed, got %v", argv[:2])
	}
	if argv[2] != "-d" || !strings.HasPrefix(argv[3], "SLIM_WRAP_PARAMS = Dictionary(readFile('") {
		t.Errorf("dictionary definition must come first, got %q", argv[3])
	}

	wantDefs := []string{
		"grid=matrix(SLIM_WRAP_PARAMS.getValue('grid'), nrow=2, ncol=2, byrow=T);",
		"rates=SLIM_WRAP_PARAMS.getValue('rates');",
		"two_float=SLIM_WRAP_PARAMS.getValue('two_float');",
		"two_int=SLIM_WRAP_PARAMS.getValue('two_int');",
		"yes=SLIM_WRAP_PARAMS.getValue('yes');",
	}
	for i, want := range wantDefs {
		flagAt := 4 + 2*i
		if argv[flagAt] != "-d" || argv[flagAt+1] != want {
			t.Errorf("definition %d = %q %q, want -d %q", i, argv[flagAt], argv[flagAt+1], want)
		}
	}

	last := argv[len(argv)-1]
	if !strings.HasSuffix(last, ".slim") {
		t.Errorf("model path must be the final argument, got %q", last)
	}

	// The payload file is gone once the run completes.
	dictDef := argv[3]
	start := strings.Index(dictDef, "readFile('") + len("readFile('")
	payloadPath := dictDef[start : start+strings.Index(dictDef[start:], "'")]
	if _, statErr := os.Stat(payloadPath); !os.IsNotExist(statErr) {
		t.Errorf("payload file %q survived the run", payloadPath)
	}
}

// Test for: a run with no constants adds no -d flags and no payload file
func TestCoreExecution_NoConstants_NoDefinitions(t *testing.T) {
	// --- Arrange ---
	engine, argvPath := testutil.RecordingEngine(t)
	runFile := `
model "bare" {
  code = "initialize() {}"
  seed = 7
}
`

	// --- Act ---
	result := testutil.RunAppTest(t, map[string]string{"main.hcl": runFile}, engine)

	// --- Assert ---
	if result.Err != nil {
		t.Fatalf("app run failed: %v\nlogs:\n%s", result.Err, result.LogOutput)
	}

	raw, err := os.ReadFile(argvPath)
	if err != nil {
		t.Fatalf("reading recorded argv: %v", err)
	}
	argv := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(argv) != 3 {
		t.Errorf("argv = %v, want exactly -s, seed, model path", argv)
	}
	for _, a := range argv {
		if a == "-d" {
			t.Errorf("unexpected -d flag in %v", argv)
		}
	}
}
