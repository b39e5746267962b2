package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrSerialize = errors.New("serialize failed")
	ErrPersist   = errors.New("persist failed")
)
