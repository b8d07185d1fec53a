// Package batch expands every XGen patch assembly of a scene with a pool of
// workers and writes a preview per assembly.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"xgenseed/internal/logging"
	"xgenseed/internal/metrics"
	"xgenseed/internal/preview"
	"xgenseed/internal/procedural"
	"xgenseed/internal/scene"
	"xgenseed/internal/xgen"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Project   *scene.Project
	Generator xgen.Generator
	Metrics   *metrics.Metrics

	Seed              uint64
	Material          string
	MaxTransformDepth int

	// OutputDir receives one preview per assembly unless NoPreview is set.
	OutputDir     string
	NoPreview     bool
	PreviewSize   int
	Supersample   int
	PreviewFormat string
	Workers       int
}

// Result holds the outcome of expanding one assembly.
type Result struct {
	Assembly   string
	Object     string
	Segments   int
	Faces      int
	EmptyFaces int
	Image      string
	Success    bool
	Error      string
	Elapsed    time.Duration
}

// Collect returns the XGen patch assemblies below root, parents first.
func Collect(root *scene.Assembly) []*scene.Assembly {
	var out []*scene.Assembly
	for a := range root.Descendants() {
		if procedural.IsProcedural(a) {
			out = append(out, a)
		}
	}
	return out
}

// Run expands all assemblies using a worker pool. Each assembly is expanded
// by exactly one worker; results keep the input order. Cancelling ctx stops
// handing out work, and unstarted assemblies report the context error.
func Run(ctx context.Context, cfg Config, assemblies []*scene.Assembly) []Result {
	total := len(assemblies)
	results := make([]Result, total)
	var processed atomic.Int64
	log := logging.Logger()

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("batch progress", "done", p, "total", total, "per_sec", rate)
				}
			}
		}
	}()

	// Worker pool
	work := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = processAssembly(ctx, cfg, assemblies[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range assemblies {
		if ctx.Err() != nil {
			results[i] = Result{Assembly: assemblies[i].Name(), Error: ctx.Err().Error()}
			continue
		}
		work <- i
	}
	close(work)

	wg.Wait()
	close(done)

	return results
}

func processAssembly(ctx context.Context, cfg Config, a *scene.Assembly) Result {
	r := Result{Assembly: a.Name(), Object: procedural.ObjectName(a.Name())}

	res, err := procedural.Expand(ctx, cfg.Project, a, procedural.Options{
		Generator:         cfg.Generator,
		Seed:              cfg.Seed,
		Material:          cfg.Material,
		MaxTransformDepth: cfg.MaxTransformDepth,
		Metrics:           cfg.Metrics,
	})
	if res != nil {
		r.Segments = res.Object.SegmentCount()
		r.Faces = res.Faces
		r.EmptyFaces = res.EmptyFaces
		r.Elapsed = res.Elapsed
	}
	if err != nil {
		r.Error = err.Error()
		return r
	}

	if !cfg.NoPreview {
		name := fmt.Sprintf("%s.%s", a.Name(), cfg.PreviewFormat)
		img := preview.Render(res.Object, preview.Options{Size: cfg.PreviewSize, Supersample: cfg.Supersample})
		if perr := preview.Save(filepath.Join(cfg.OutputDir, name), img); perr != nil {
			err = errors.Join(err, perr)
			r.Error = err.Error()
		} else {
			r.Image = name
		}
	}

	r.Success = err == nil
	return r
}
