// Package pipeline runs the fetch → filter → merge → build → emit pipeline
// that turns a Sisu programme into a Graphviz file.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Fetch: download the curriculum tree (sisu.Client)
//  2. Filter: drop blacklisted modules and courses (curriculum.Filter)
//  3. Merge: apply the annotation file (annotation.Merge)
//  4. Build: flatten the tree into a graph (graph.Build)
//  5. Emit: write DOT and the optional JSON and image artifacts
//
// Every setting is carried by [Options]; nothing is read from the
// environment or global state.
//
// # Usage
//
//	runner := pipeline.NewRunner(client, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ProgrammeID: "otm-1234",
//	    Year:        2024,
//	    Blacklist:   []string{"COMP.CS.100"},
//	})
//
// The fetch stage can be run on its own with [Runner.Fetch] and the rest
// with [Runner.Process], which the interactive picker uses to choose the
// blacklist between the two.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sisugv/sisugv/pkg/curriculum"
	"github.com/sisugv/sisugv/pkg/errors"
	"github.com/sisugv/sisugv/pkg/graph"
	"github.com/sisugv/sisugv/pkg/render"
	"github.com/sisugv/sisugv/pkg/render/dot"
)

// Stdout is the Output value that writes DOT to Options.Stdout.
const Stdout = "-"

// Stage names reported to the pipeline hooks.
const (
	StageFetch  = "fetch"
	StageFilter = "filter"
	StageMerge  = "merge"
	StageBuild  = "build"
	StageEmit   = "emit"
)

// Options contains all configuration for one pipeline run.
type Options struct {
	ProgrammeID string
	Year        int

	// Blacklist lists module or course identifiers (id, code or key) to
	// leave out.
	Blacklist []string

	// AnnotationPath is the optional annotation JSON file.
	AnnotationPath string

	// Output is the DOT file path. Empty means DefaultOutput; Stdout
	// writes to the Stdout writer.
	Output string
	Stdout io.Writer

	AlsoRecommended bool
	TableLabels     bool

	// Formats are rendered next to the DOT file.
	Formats []render.Format

	// JSON also writes the graph as node-link JSON next to the DOT file.
	JSON bool

	// DryRun builds everything but writes nothing.
	DryRun bool
}

// DefaultOutput returns the default DOT file name for a programme and year.
func DefaultOutput(programmeID string, year int) string {
	return fmt.Sprintf("%s_%d.gv", programmeID, year)
}

// Validate checks required fields and fills in defaults. Invalid options
// are CONFIG_ERROR coded errors.
func (o *Options) Validate() error {
	if err := errors.ValidateProgrammeID(o.ProgrammeID); err != nil {
		return err
	}
	if err := errors.ValidateYear(o.Year); err != nil {
		return err
	}
	for _, id := range o.Blacklist {
		if err := errors.ValidateIdentifier(id); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "invalid blacklist entry")
		}
	}
	if o.Output == "" {
		o.Output = DefaultOutput(o.ProgrammeID, o.Year)
	}
	if o.Output == Stdout {
		if o.Stdout == nil {
			return errors.New(errors.ErrCodeConfig, "output is stdout but no writer is set")
		}
		if len(o.Formats) > 0 || o.JSON {
			return errors.New(errors.ErrCodeConfig, "--render and --json need an output file, not stdout")
		}
	}
	return nil
}

func (o *Options) emitOptions() dot.Options {
	return dot.Options{TableLabels: o.TableLabels}
}

func (o *Options) buildOptions() graph.BuildOptions {
	return graph.BuildOptions{AlsoRecommended: o.AlsoRecommended}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	RunID string

	// Programme is the filtered and annotated curriculum.
	Programme *curriculum.Programme
	Graph     *graph.Graph

	// DOT is the emitted Graphviz text.
	DOT string

	// Files lists written paths, DOT file first. Empty for stdout output
	// and dry runs.
	Files []string

	// Removed lists courses dropped by the blacklist.
	Removed []*curriculum.Course

	// UnmatchedBlacklist and UnmatchedAnnotations list identifiers that
	// named nothing in the programme.
	UnmatchedBlacklist   []string
	UnmatchedAnnotations []string

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Modules   int
	Courses   int
	NodeCount int
	EdgeCount int
	FetchTime time.Duration
	TotalTime time.Duration
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
