package smoketest

import (
	"fmt"
	"io"
	"log"
	"os"
)

// SetupLogging routes the harness log to stdout and, when configured,
// mirrors it to a file. The returned closer is nil when no file is used.
func SetupLogging(cfg Config) (io.Closer, error) {
	log.SetFlags(log.Ltime)

	if cfg.LogFile == "" {
		log.SetOutput(os.Stdout)
		return nil, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// ShowHelp prints CLI usage.
func ShowHelp() {
	fmt.Println(`genemap-smoke - end-to-end smoke test for the gene resolution pipeline

Spins up a stub E-utilities service with a synthetic gene catalog, runs
the full pipeline against it, and verifies the produced mapping,
unresolved report, and gene info files.

Usage:
  genemap-smoke [flags]

Flags:
  -symbols N      resolvable symbols to generate (default 20)
  -aliases N      alias-form queries to generate (default 5)
  -unknown N      symbols with no candidates (default 3)
  -workers N      pipeline worker count (default 4)
  -timeout D      overall run deadline (default 2m)
  -workdir DIR    scratch directory (default: a temp dir)
  -keep           keep the scratch directory after the run
  -log FILE       mirror output to FILE
  -v              verbose per-symbol output
  -help           show this help`)
}
