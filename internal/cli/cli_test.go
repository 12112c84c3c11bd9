package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestParse_PositionalRunPath(t *testing.T) {
	var out bytes.Buffer

	cfg, shouldExit, err := Parse([]string{"runs/main.hcl"}, &out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if shouldExit {
		t.Fatal("should not exit when a run path is given")
	}
	if cfg.RunPath != "runs/main.hcl" {
		t.Errorf("RunPath = %q", cfg.RunPath)
	}
	if cfg.EngineBinary != "slim" {
		t.Errorf("EngineBinary = %q, want the default", cfg.EngineBinary)
	}
	if cfg.LogFormat != "text" || cfg.LogLevel != "info" {
		t.Errorf("log defaults = %q/%q", cfg.LogFormat, cfg.LogLevel)
	}
}

func TestParse_Flags(t *testing.T) {
	var out bytes.Buffer

	cfg, _, err := Parse([]string{"-r", "sweep", "-engine", "slim-dev", "-log-format", "JSON", "-log-level", "DEBUG"}, &out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.RunPath != "sweep" {
		t.Errorf("RunPath = %q", cfg.RunPath)
	}
	if cfg.EngineBinary != "slim-dev" {
		t.Errorf("EngineBinary = %q", cfg.EngineBinary)
	}
	// Log settings are case-normalized.
	if cfg.LogFormat != "json" || cfg.LogLevel != "debug" {
		t.Errorf("log settings = %q/%q", cfg.LogFormat, cfg.LogLevel)
	}
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer

	_, shouldExit, err := Parse(nil, &out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !shouldExit {
		t.Error("should exit cleanly with usage when no path is given")
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("usage text missing:\n%s", out.String())
	}
}

func TestParse_InvalidLogSettings(t *testing.T) {
	var out bytes.Buffer

	_, _, err := Parse([]string{"-log-format", "xml", "p.hcl"}, &out)
	exitErr, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2", exitErr.Code)
	}

	if _, _, err := Parse([]string{"-log-level", "loud", "p.hcl"}, &out); err == nil {
		t.Error("expected an error for an invalid log level")
	}
}
