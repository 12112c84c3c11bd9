// Package runfile loads HCL run files: declarative descriptions of which
// model to run, with what seed, and which constants to inject.
package runfile

import "github.com/hashicorp/hcl/v2"

// ConstantsBlock holds the raw body of a 'constants' block. Attributes are
// evaluated lazily so diagnostics can point at the offending expression.
type ConstantsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// ModelBlock represents a `model` block from a run file. Exactly one of
// Source or Code must be set.
type ModelBlock struct {
	Name      string          `hcl:"name,label"`
	Source    string          `hcl:"source,optional"`
	Code      string          `hcl:"code,optional"`
	Seed      *int64          `hcl:"seed,optional"`
	NoCheck   bool            `hcl:"no_check,optional"`
	Constants *ConstantsBlock `hcl:"constants,block"`
}

// EngineBlock configures the engine binary for every model in the file.
type EngineBlock struct {
	Binary string `hcl:"binary,optional"`
}

// File is the top-level structure of a run file.
type File struct {
	Models []*ModelBlock `hcl:"model,block"`
	Engine *EngineBlock  `hcl:"engine,block"`
}
