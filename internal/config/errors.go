package config

import "errors"

var (
	// ErrInvalidConfig wraps a setting that Validate rejects.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps a failure to read the YAML file or the environment.
	ErrLoadConfig = errors.New("load config failed")
)
