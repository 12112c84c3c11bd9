package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RunPath      string // a run file or a directory of run files
	EngineBinary string // overridable per run file via an engine block

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.RunPath == "" {
		return nil, errors.New("RunPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
