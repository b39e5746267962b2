package smoketest

import "time"

const (
	// DefaultNumSymbols is how many resolvable symbols the generator emits.
	DefaultNumSymbols = 20

	// DefaultNumAliases is how many alias-form queries the generator emits.
	DefaultNumAliases = 5

	// DefaultNumUnknown is how many unmatched symbols the generator emits.
	DefaultNumUnknown = 3

	// DefaultWorkerCount drives the pipeline concurrency during the run.
	DefaultWorkerCount = 4

	// DefaultTimeout bounds the whole smoke run.
	DefaultTimeout = 2 * time.Minute

	// stubRatePerSecond keeps the client limiter out of the way; the stub
	// service has no quota.
	stubRatePerSecond = 1000

	// stubRetryDelay keeps transient-failure drills fast.
	stubRetryDelay = 10 * time.Millisecond

	// percentageMultiplier converts ratios to percentages for display.
	percentageMultiplier = 100
)
