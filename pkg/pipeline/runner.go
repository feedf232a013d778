package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sisugv/sisugv/pkg/annotation"
	"github.com/sisugv/sisugv/pkg/curriculum"
	"github.com/sisugv/sisugv/pkg/errors"
	"github.com/sisugv/sisugv/pkg/graph"
	"github.com/sisugv/sisugv/pkg/observability"
	"github.com/sisugv/sisugv/pkg/render"
	"github.com/sisugv/sisugv/pkg/render/dot"
)

// Fetcher downloads a programme's curriculum tree.
type Fetcher interface {
	Fetch(ctx context.Context, programmeID string, year int) (*curriculum.Programme, error)
}

// Runner executes the pipeline. It holds no per-run state and can be
// reused for several runs.
type Runner struct {
	Fetcher Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner. If logger is nil, logging is discarded.
func NewRunner(f Fetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = discardLogger()
	}
	return &Runner{Fetcher: f, Logger: logger}
}

// Execute runs every stage for opts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	p, err := r.Fetch(ctx, opts.ProgrammeID, opts.Year)
	if err != nil {
		return nil, err
	}
	fetchTime := time.Since(start)

	result, err := r.Process(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = fetchTime
	result.Stats.TotalTime = time.Since(start)
	return result, nil
}

// Fetch runs the fetch stage only.
func (r *Runner) Fetch(ctx context.Context, programmeID string, year int) (*curriculum.Programme, error) {
	var p *curriculum.Programme
	err := stage(ctx, StageFetch, func() error {
		var err error
		p, err = r.Fetcher.Fetch(ctx, programmeID, year)
		return err
	})
	if err != nil {
		return nil, err
	}
	var modules int
	p.Walk(func(*curriculum.Module, *curriculum.Module) { modules++ })
	r.Logger.Info("Fetched curriculum",
		"programme", p.Name,
		"modules", modules,
		"courses", len(p.Courses())-len(p.External),
		"external", len(p.External))
	return p, nil
}

// Process runs filter, merge, build and emit on an already fetched
// programme. p is not modified.
func (r *Runner) Process(ctx context.Context, p *curriculum.Programme, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	result := &Result{RunID: uuid.NewString()[:8]}
	logger := r.Logger.With("run", result.RunID)

	// The annotation file is read before anything else so a broken file
	// fails the run without touching the output.
	var ann *annotation.Annotations
	if opts.AnnotationPath != "" {
		var err error
		if ann, err = annotation.Load(opts.AnnotationPath); err != nil {
			return nil, err
		}
		logger.Debug("Loaded annotations", "path", opts.AnnotationPath, "entries", ann.Len())
	}

	_ = stage(ctx, StageFilter, func() error {
		res := curriculum.Filter(p, opts.Blacklist)
		result.Programme = res.Programme
		result.Removed = res.Removed
		result.UnmatchedBlacklist = res.Unmatched
		return nil
	})
	if len(opts.Blacklist) > 0 {
		logger.Info("Applied blacklist", "entries", len(opts.Blacklist), "removed", len(result.Removed))
	}
	for _, id := range result.UnmatchedBlacklist {
		logger.Debug("Blacklist entry matched nothing", "id", id)
	}

	_ = stage(ctx, StageMerge, func() error {
		res := annotation.Merge(result.Programme, ann)
		result.UnmatchedAnnotations = res.Unmatched
		if ann.Len() > 0 {
			logger.Info("Merged annotations", "applied", res.Applied, "unmatched", len(res.Unmatched))
		}
		return nil
	})
	for _, id := range result.UnmatchedAnnotations {
		logger.Debug("Annotation matched no course", "id", id)
	}

	err := stage(ctx, StageBuild, func() error {
		g, err := graph.Build(result.Programme, opts.buildOptions())
		result.Graph = g
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	result.Programme.Walk(func(*curriculum.Module, *curriculum.Module) { result.Stats.Modules++ })
	result.Stats.Courses = len(result.Programme.Courses()) - len(result.Programme.External)
	result.Stats.NodeCount = result.Graph.NodeCount()
	result.Stats.EdgeCount = result.Graph.EdgeCount()
	logger.Info("Built graph", "nodes", result.Stats.NodeCount, "edges", result.Stats.EdgeCount)

	result.DOT = dot.ToDOT(result.Graph, opts.emitOptions())
	if err := stage(ctx, StageEmit, func() error { return r.emit(ctx, result, opts) }); err != nil {
		return nil, err
	}
	result.Stats.TotalTime = time.Since(start)
	return result, nil
}

type artifact struct {
	path string
	data []byte
}

// emit prepares every artifact in memory before writing any, so a render
// failure leaves no files behind.
func (r *Runner) emit(ctx context.Context, result *Result, opts Options) error {
	if opts.DryRun {
		return nil
	}
	if opts.Output == Stdout {
		if _, err := io.WriteString(opts.Stdout, result.DOT); err != nil {
			return errors.IO(err, "write DOT to stdout")
		}
		return nil
	}

	files := []artifact{{opts.Output, []byte(result.DOT)}}
	if opts.JSON {
		data, err := graph.MarshalJSON(result.Graph)
		if err != nil {
			return errors.IO(err, "encode graph JSON")
		}
		files = append(files, artifact{render.SiblingPath(opts.Output, "json"), data})
	}
	for _, f := range opts.Formats {
		data, err := dot.Render(ctx, result.DOT, f)
		if err != nil {
			return errors.IO(err, "render %s", f)
		}
		files = append(files, artifact{render.SiblingPath(opts.Output, f.String()), data})
	}

	for _, f := range files {
		if err := render.WriteFile(f.path, f.data); err != nil {
			return err
		}
		result.Files = append(result.Files, f.path)
	}
	return nil
}

// stage runs fn between the pipeline start and complete hooks.
func stage(ctx context.Context, name string, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, name, time.Since(start), err)
	return err
}
