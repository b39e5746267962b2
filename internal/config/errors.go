package config

import (
	"errors"
)

// Sentinel kinds for configuration errors, matchable with errors.Is.
var (
	// ErrLoadConfig wraps failures reading or parsing configuration sources.
	ErrLoadConfig = errors.New("load config failed")

	// ErrInvalidConfig wraps values that fail validation after loading.
	ErrInvalidConfig = errors.New("invalid config")
)
