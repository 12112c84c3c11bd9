// Package slim drives the SLiM simulation engine as a subprocess: it
// persists a model's source to an exclusively-owned temporary file,
// validates it eagerly through the engine's check mode, and runs it with a
// controlled seed and optional injected constants.
//
// The engine binary itself is an opaque collaborator; locating or
// installing it is the caller's problem.
package slim
