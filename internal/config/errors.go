package config

import "errors"

// Sentinel kinds returned by Load and Validate.
var (
	// ErrInvalidConfig wraps field validation failures.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps file, parse and env decoding failures.
	ErrLoadConfig = errors.New("load config failed")
)
