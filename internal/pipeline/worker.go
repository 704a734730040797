package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/opgen/internal/config"
	"github.com/dgallion1/opgen/internal/emit"
	"github.com/dgallion1/opgen/internal/parser"
)

// Worker runs generation jobs one at a time. A single run is strictly
// sequential; concurrency comes only from running several workers.
type Worker struct {
	cfg   config.Config
	cache *ResultCache
	stats *GenerationStats
	log   *slog.Logger
}

func NewWorker(cfg config.Config, cache *ResultCache, stats *GenerationStats, log *slog.Logger) *Worker {
	return &Worker{cfg: cfg, cache: cache, stats: stats, log: log}
}

// Process runs parse, walk and emit for a job and records the outcome on it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	opts := w.cfg.EmitOptions()
	goOpts := w.cfg.GoOptions(job.Filename)
	if job.Package != "" {
		goOpts.Package = job.Package
	}
	if job.LookupFunc != "" {
		goOpts.LookupFunc = job.LookupFunc
	}
	opts.Reserved = goOpts.Names()

	data := job.FileData()
	var key string
	if w.cache != nil {
		key = CacheKey(data, job.Filename, opts, goOpts)
		if res, ok := w.cache.Get(key); ok {
			log.Info("served from cache", "content_hash", job.ContentHash)
			w.stats.RecordCacheHit()
			job.Complete(res, true)
			return
		}
	}

	res, phase, err := w.run(ctx, job, data, opts, goOpts)
	w.stats.Record(time.Since(start), err == nil)
	if err != nil {
		log.Error("generation failed", "phase", phase, "error", err)
		job.Fail(phase, err)
		return
	}

	if w.cache != nil {
		w.cache.Put(key, res)
	}
	log.Info("generation complete",
		"base", res.Counts.Base,
		"extended", res.Counts.Extended,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	job.Complete(res, false)
}

func (w *Worker) run(ctx context.Context, job *Job, data []byte, opts emit.Options, goOpts emit.GoOptions) (*Result, string, error) {
	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		return nil, "parsing", err
	}
	doc, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		return nil, "parsing", fmt.Errorf("parse: %w", err)
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	if err := ctx.Err(); err != nil {
		return nil, "parsing", err
	}

	// Phase 2: Walk and validate the whole table.
	job.SetStatus(StatusWalking, "walking")
	tables, err := emit.Build(doc.Rows, opts)
	if err != nil {
		return nil, "walking", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "walking", err
	}

	// Phase 3: Emit source and tree listing.
	job.SetStatus(StatusEmitting, "emitting")
	var src, tree bytes.Buffer
	if err := emitAll(tables, emit.NewGoWriter(&src, opts.BaseSlice, goOpts)); err != nil {
		return nil, "emitting", err
	}
	if err := emitAll(tables, emit.NewTreeWriter(&tree, doc.Title)); err != nil {
		return nil, "emitting", err
	}

	return &Result{
		Title:  doc.Title,
		Source: src.Bytes(),
		Tree:   tree.String(),
		Counts: Counts{
			Base:        len(tables.Base),
			Extended:    len(tables.Extended),
			HasExtended: tables.HasExtended,
		},
	}, "", nil
}

func emitAll(t *emit.Tables, w emit.Writer) error {
	if err := t.Emit(w); err != nil {
		return err
	}
	return w.Close()
}
