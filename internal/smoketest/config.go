package smoketest

import "time"

// Config controls a smoke test run.
type Config struct {
	NumSymbols  int           // known symbols to generate
	NumAliases  int           // symbols queried by alias
	NumUnknown  int           // symbols with no candidates
	WorkerCount int           // pipeline workers
	Timeout     time.Duration // overall run deadline
	WorkDir     string        // scratch dir; empty means a temp dir
	KeepOutput  bool          // leave the scratch dir behind for inspection
	LogFile     string        // optional log destination
	Verbose     bool
}

// Stats summarizes the outcome of a run.
type Stats struct {
	Symbols    int
	Resolved   int
	Unresolved int
	Enriched   int
	Failures   []string
	StartTime  time.Time
	EndTime    time.Time
}

// Duration returns the wall-clock time of the run.
func (s Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
