// Command assess scores a batch of tokens from a CSV file.
//
// Usage:
//
//	assess -input tokens.csv -output risk_report.csv -json risk_report.json
//
// The input CSV has one token per row: address,chain. A header row is
// optional. The run summary is printed to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantfi/tokenrisk/internal/assessor"
	"github.com/quantfi/tokenrisk/internal/batch"
	"github.com/quantfi/tokenrisk/internal/cache"
	"github.com/quantfi/tokenrisk/internal/circuitbreaker"
	"github.com/quantfi/tokenrisk/internal/config"
	"github.com/quantfi/tokenrisk/internal/gateway"
	"github.com/quantfi/tokenrisk/internal/logging"
	"github.com/quantfi/tokenrisk/internal/report"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "input CSV (address,chain), required")
		outputPath = flag.String("output", "", "CSV report path (optional)")
		jsonPath   = flag.String("json", "", "JSON report path (optional)")
		workers    = flag.Int("workers", 0, "worker pool size (default from BATCH_WORKERS)")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: assess -input tokens.csv [-output report.csv] [-json report.json]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, "text")

	in, err := os.Open(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open input: %v\n", err)
		os.Exit(1)
	}
	requests, rowErrs := batch.ParseCSV(in)
	_ = in.Close()
	if len(requests) == 0 {
		fmt.Fprintln(os.Stderr, "no valid tokens in input")
		for _, e := range rowErrs {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		os.Exit(1)
	}

	breaker := circuitbreaker.New(5, 30*time.Second)
	gw := gateway.New(cfg, cache.NewMemoryStore(), breaker)
	a := assessor.New(gw, nil)

	poolSize := cfg.BatchWorkers
	if *workers > 0 {
		poolSize = *workers
	}
	runner := batch.NewRunner(a, poolSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	summary := runner.Run(ctx, requests, rowErrs)

	if *outputPath != "" {
		if err := writeFile(*outputPath, summary, report.WriteCSV); err != nil {
			fmt.Fprintf(os.Stderr, "csv report: %v\n", err)
			os.Exit(1)
		}
	}
	if *jsonPath != "" {
		if err := writeFile(*jsonPath, summary, report.WriteJSON); err != nil {
			fmt.Fprintf(os.Stderr, "json report: %v\n", err)
			os.Exit(1)
		}
	}

	if err := report.WriteSummary(os.Stdout, summary); err != nil {
		fmt.Fprintf(os.Stderr, "summary: %v\n", err)
		os.Exit(1)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func writeFile(path string, summary *batch.Summary, write func(w io.Writer, s *batch.Summary) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, summary); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
