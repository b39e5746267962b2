// Package types contains common report types used across the application.
package types

import "time"

// UnresolvedEntry records one symbol that could not be resolved.
type UnresolvedEntry struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Reason string `json:"reason" yaml:"reason"`
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	RunID      string            `json:"run_id"`
	Symbols    int               `json:"symbols"`
	Resolved   int               `json:"resolved"`
	Unresolved []UnresolvedEntry `json:"unresolved"`
	Mapping    map[string]string `json:"mapping"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// Progress is the live view served by the ops endpoint during a run.
type Progress struct {
	RunID      string `json:"run_id"`
	Total      int    `json:"total"`
	Done       int    `json:"done"`
	Resolved   int    `json:"resolved"`
	Unresolved int    `json:"unresolved"`
	Stage      string `json:"stage"`
}
