package eutils

import "errors"

// Sentinel kinds for query client errors. Callers classify with errors.Is.
var (
	// ErrTransient marks transport-layer symptoms: connection errors,
	// timeouts, non-2xx statuses. Only this class is retried.
	ErrTransient = errors.New("transient network failure")

	// ErrExhaustedRetries is surfaced after the attempt ceiling is reached.
	ErrExhaustedRetries = errors.New("retries exhausted")

	// ErrMalformedRecord marks a response that parsed so badly that not even
	// absent-field defaults could be extracted. Never retried.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidRequest marks caller mistakes (empty symbol, non-positive
	// maxResults). These indicate a setup problem, not a data problem.
	ErrInvalidRequest = errors.New("invalid request")
)
