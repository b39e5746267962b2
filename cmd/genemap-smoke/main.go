package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/genemap/genemap/internal/smoketest"
	"github.com/genemap/genemap/pkg/logger"
)

func main() {
	var cfg smoketest.Config
	var help bool

	flag.IntVar(&cfg.NumSymbols, "symbols", smoketest.DefaultNumSymbols, "resolvable symbols to generate")
	flag.IntVar(&cfg.NumAliases, "aliases", smoketest.DefaultNumAliases, "alias-form queries to generate")
	flag.IntVar(&cfg.NumUnknown, "unknown", smoketest.DefaultNumUnknown, "symbols with no candidates")
	flag.IntVar(&cfg.WorkerCount, "workers", smoketest.DefaultWorkerCount, "pipeline worker count")
	flag.DurationVar(&cfg.Timeout, "timeout", smoketest.DefaultTimeout, "overall run deadline")
	flag.StringVar(&cfg.WorkDir, "workdir", "", "scratch directory (default: a temp dir)")
	flag.BoolVar(&cfg.KeepOutput, "keep", false, "keep the scratch directory after the run")
	flag.StringVar(&cfg.LogFile, "log", "", "mirror output to a file")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose per-symbol output")
	flag.BoolVar(&help, "help", false, "show help")
	flag.Parse()

	if help {
		smoketest.ShowHelp()
		return
	}

	closer, err := smoketest.SetupLogging(cfg)
	if err != nil {
		log.Fatalf("setup logging: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !cfg.Verbose {
		_ = logger.SetLevelString("warn")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := smoketest.Run(ctx, cfg); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
