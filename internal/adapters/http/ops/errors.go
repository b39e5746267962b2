package ops

import "errors"

// Sentinel kinds for ops errors.
var (
	ErrNoRun = errors.New("no run in progress")
)
