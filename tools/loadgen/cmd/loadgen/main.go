// Package main provides the CLI entry point for the load generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bewloop/quark-system/tools/loadgen/internal/client"
	"github.com/bewloop/quark-system/tools/loadgen/internal/metrics"
	"github.com/bewloop/quark-system/tools/loadgen/internal/runner"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL     = flag.String("url", "http://localhost:8080/api/v1", "API base URL")
		username    = flag.String("user", "admin", "Login username")
		password    = flag.String("pass", "", "Login password")
		workers     = flag.Int("workers", 8, "Concurrent workers")
		duration    = flag.Duration("duration", 30*time.Second, "Test duration")
		replayRatio = flag.Float64("replay-ratio", 0.2, "Share of creates retried with the same Idempotency-Key")
		cancelRatio = flag.Float64("cancel-ratio", 0.1, "Share of status changes that cancel the order")
		timeout     = flag.Duration("timeout", 10*time.Second, "Per-request timeout")
		qps         = flag.Float64("qps", 0, "Request rate cap across all workers (0 = unlimited)")
		promAddr    = flag.String("prometheus", "", "Prometheus metrics endpoint (e.g., :9090)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("loadgen %s\n", version)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(*baseURL, *timeout)
	if err := api.Login(ctx, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: login failed: %v\n", err)
		return 1
	}

	var recorder runner.Recorder
	if *promAddr != "" {
		exporter := metrics.NewExporter()
		if err := exporter.Start(*promAddr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = exporter.Stop(shutdownCtx)
		}()
		recorder = exporter
		fmt.Printf("Prometheus metrics on %s/metrics\n", *promAddr)
	}

	fmt.Printf("Running %d workers for %s against %s\n", *workers, *duration, *baseURL)
	rep := runner.New(api, runner.Config{
		Workers:     *workers,
		Duration:    *duration,
		ReplayRatio: *replayRatio,
		CancelRatio: *cancelRatio,
		QPS:         *qps,
	}, recorder).Run(ctx)

	fmt.Println()
	fmt.Printf("Requests:          %d\n", rep.Requests)
	fmt.Printf("Orders created:    %d\n", rep.Created)
	fmt.Printf("Replays:           %d\n", rep.Replayed)
	fmt.Printf("Advanced:          %d\n", rep.Advanced)
	fmt.Printf("Cancelled:         %d\n", rep.Cancelled)
	fmt.Printf("Conflicts:         %d\n", rep.Conflicts)
	fmt.Printf("Errors:            %d\n", rep.Errors)
	fmt.Printf("Latency p50/95/99: %s / %s / %s\n", rep.P50, rep.P95, rep.P99)

	failed := false
	if n := len(rep.Duplicates); n > 0 {
		fmt.Printf("DUPLICATE order numbers: %d (first: %s)\n", n, rep.Duplicates[0])
		failed = true
	}
	if rep.ReplayMismatches > 0 {
		fmt.Printf("Replays returning a different order: %d\n", rep.ReplayMismatches)
		failed = true
	}
	if failed {
		return 2
	}
	return 0
}
