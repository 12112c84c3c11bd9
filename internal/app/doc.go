// Package app wires configuration, logging, and the model runner into the
// slimwrapgo command-line application.
package app
