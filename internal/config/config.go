// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override them in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/genemap/genemap/internal/adapters/eutils"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the operational HTTP listen address, e.g. ":9080".
	MetricsAddr string `koanf:"metrics_addr"`

	// BaseURL points at the NCBI E-utilities endpoint.
	BaseURL string `koanf:"base_url"`

	// APIKey is the optional NCBI API key attached to every request.
	APIKey string `koanf:"api_key"`

	// MaxResults caps candidates returned per symbol search.
	MaxResults int `koanf:"max_results"`

	// SortOrder is the candidate ordering requested from ESearch.
	SortOrder string `koanf:"sort_order"`

	// RetryAttempts bounds transient-failure retries per request.
	RetryAttempts int `koanf:"retry_attempts"`

	// RetryDelayMS is the fixed pause between attempts.
	RetryDelayMS int `koanf:"retry_delay_ms"`

	// RatePerSecond throttles outbound E-utilities requests.
	RatePerSecond float64 `koanf:"rate_per_second"`

	// WorkerCount sets the number of resolution workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory symbol job queue.
	QueueSize int `koanf:"queue_size"`

	// SymbolsFile is the newline-separated list of gene symbols to resolve.
	SymbolsFile string `koanf:"symbols_file"`

	// OutputDir receives the mapping, reports, and extracted matrices.
	OutputDir string `koanf:"output_dir"`

	// EnsgDictFile maps Ensembl gene IDs to symbols for extraction.
	EnsgDictFile string `koanf:"ensg_dict_file"`

	// DataDir holds the downloaded expression cart and sample files.
	DataDir string `koanf:"data_dir"`

	// Datasets names the cart subdirectories to extract from.
	Datasets []string `koanf:"datasets"`

	// ZeroTolerance is the magnitude below which a count is treated as zero.
	ZeroTolerance float64 `koanf:"zero_tolerance"`

	// MaxZeroFraction drops genes whose zero fraction exceeds it.
	MaxZeroFraction float64 `koanf:"max_zero_fraction"`

	// FetchInfo enables the per-gene metadata enrichment stage.
	FetchInfo bool `koanf:"fetch_info"`

	// Extract enables the expression matrix extraction stage.
	Extract bool `koanf:"extract"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		MetricsAddr:     ":9080",
		BaseURL:         eutils.DefaultBaseURL,
		MaxResults:      25,
		SortOrder:       string(eutils.SortRelevance),
		RetryAttempts:   6,
		RetryDelayMS:    3000,
		RatePerSecond:   3,
		WorkerCount:     1,
		QueueSize:       10_000,
		SymbolsFile:     "genes.txt",
		OutputDir:       "out",
		EnsgDictFile:    "ensg_dict.json",
		DataDir:         "data",
		ZeroTolerance:   1e-6,
		MaxZeroFraction: 0.50,
		FetchInfo:       true,
	}
}
