package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"xgenseed/internal/batch"
	"xgenseed/internal/config"
	"xgenseed/internal/logging"
	"xgenseed/internal/metrics"
	"xgenseed/internal/replay"
	"xgenseed/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a JSON or YAML config file")
	scenePath := flag.String("scene", "", "Scene description (YAML)")
	cacheDir := flag.String("caches", "", "Directory the xgen_args cache paths are relative to (default: scene directory)")
	outputDir := flag.String("output", "", "Output directory (default: xgenseed-out)")
	assembly := flag.String("assembly", "", "Expand only this assembly")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	size := flag.Int("size", 0, "Preview size in pixels (default: 256)")
	seed := flag.Uint64("seed", 0, "Strand color seed (default: 5489)")
	depth := flag.Int("depth", 0, "Instance levels to compose, 0 walks to the root")
	metricsFile := flag.String("metrics", "", "Write Prometheus metrics to this textfile")
	noPreview := flag.Bool("no-preview", false, "Skip preview images")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Scene:       *scenePath,
		CacheDir:    *cacheDir,
		OutputDir:   *outputDir,
		Metrics:     *metricsFile,
		Workers:     *workers,
		PreviewSize: *size,
		Seed:        *seed,
		SeedSet:     seedSet,
		Depth:       *depth,
	})
	if *noPreview {
		cfg.NoPreview = true
	}

	if cfg.Scene == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene. Use -scene or a config file.")
		os.Exit(1)
	}

	project, err := scene.Load(cfg.Scene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	assemblies := batch.Collect(project.Scene.Root())
	if *assembly != "" {
		var filtered []*scene.Assembly
		for _, a := range assemblies {
			if a.Name() == *assembly {
				filtered = append(filtered, a)
			}
		}
		assemblies = filtered
	}

	if len(assemblies) == 0 {
		fmt.Println("No XGen patch assemblies to expand.")
		os.Exit(0)
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("XGen patch assemblies → curve objects\n")
	fmt.Printf("Scene: %s\n", cfg.Scene)
	fmt.Printf("Assemblies: %d, Workers: %d\n", len(assemblies), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	manifest := batch.NewManifest(cfg.Scene, start)

	// Run batch
	results := batch.Run(ctx, batch.Config{
		Project:           project,
		Generator:         replay.New(cfg.CacheDir),
		Metrics:           m,
		Seed:              cfg.Seed,
		Material:          cfg.Material,
		MaxTransformDepth: cfg.MaxTransformDepth,
		OutputDir:         cfg.OutputDir,
		NoPreview:         cfg.NoPreview,
		PreviewSize:       cfg.PreviewSize,
		Supersample:       cfg.Supersample,
		PreviewFormat:     cfg.PreviewFormat,
		Workers:           cfg.Workers,
	}, assemblies)

	manifest.Finished = time.Now()
	manifest.Add(results...)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", manifest.Finished.Sub(start).Seconds())

	segments := 0
	var failed []batch.Result
	for _, r := range results {
		segments += r.Segments
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Expanded: %d/%d, segments: %d\n", len(results)-len(failed), len(results), segments)

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", r.Assembly, r.Error)
		}
	}

	// Write manifest
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, manifest.RunID)
	}

	if cfg.Metrics != "" {
		if err := metrics.WriteTextfile(cfg.Metrics, reg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
