// Package main sweeps feed/kill rates headless and writes a CSV summary of
// the resulting B field for each pair.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/pthm-cable/grayscott/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	feedMin := flag.Float64("feed-min", 0.02, "Lowest feed rate")
	feedMax := flag.Float64("feed-max", 0.07, "Highest feed rate")
	feedSteps := flag.Int("feed-steps", 6, "Number of feed values")
	killMin := flag.Float64("kill-min", 0.045, "Lowest kill rate")
	killMax := flag.Float64("kill-max", 0.07, "Highest kill rate")
	killSteps := flag.Int("kill-steps", 6, "Number of kill values")
	ticks := flag.Int("ticks", 2000, "Steps to simulate per pair")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of worker goroutines")
	outputDir := flag.String("output", "", "Output directory for sweep.csv")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *outputDir == "" {
		slog.Error("-output is required")
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	points := grid(span(*feedMin, *feedMax, *feedSteps), span(*killMin, *killMax, *killSteps))
	slog.Info("starting sweep",
		"pairs", len(points),
		"workers", *workers,
		"ticks", *ticks,
		"grid_w", cfg.Grid.Width,
		"grid_h", cfg.Grid.Height,
	)

	jobs := make(chan point)
	results := make(chan result)
	var wg sync.WaitGroup

	for range max(*workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				res, err := runPoint(cfg, p, *ticks)
				if err != nil {
					slog.Error("sweep point failed", "feed", p.feed, "kill", p.kill, "error", err)
					continue
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, p := range points {
			jobs <- p
		}
		close(jobs)
	}()

	start := time.Now()
	all := make([]result, 0, len(points))
	for res := range results {
		all = append(all, res)
		slog.Info("sweep point",
			"done", len(all),
			"of", len(points),
			"feed", res.Feed,
			"kill", res.Kill,
			"b_mean", res.BMean,
			"b_std", res.BStd,
			"patterned", res.Patterned,
		)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })

	outPath := filepath.Join(*outputDir, "sweep.csv")
	if err := writeCSV(outPath, all); err != nil {
		slog.Error("failed to write sweep.csv", "error", err)
		os.Exit(1)
	}

	slog.Info("sweep complete",
		"pairs", len(all),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"output", outPath,
	)
}
