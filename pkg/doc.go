// Package pkg provides the libraries behind sisugv, which draws Sisu degree
// programmes as Graphviz graphs.
//
// # Overview
//
// A programme's module tree is fetched from the Sisu API, trimmed by a
// blacklist, annotated with icons and manual prerequisites, flattened into
// a graph and written as DOT text. The pkg directory is organized into
// three areas:
//
//  1. Domain: [curriculum], [annotation], [graph]
//  2. Infrastructure: [sisu], [cache], [render], [observability], [errors]
//  3. Orchestration: [pipeline]
//
// # Architecture
//
// The data flow of one run:
//
//	Sisu API (modules, course units)
//	         ↓
//	    [sisu] package (fetch the curriculum tree, cached)
//	         ↓
//	    [curriculum] package (blacklist filter)
//	         ↓
//	    [annotation] package (icons, manual prerequisites)
//	         ↓
//	    [graph] package (nodes, clusters, edges)
//	         ↓
//	    [render/dot] package (DOT text, optional SVG/PNG)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/sisugv/sisugv/pkg/pipeline"
//	    "github.com/sisugv/sisugv/pkg/sisu"
//	)
//
//	client := sisu.NewClient(sisu.Config{})
//	runner := pipeline.NewRunner(client, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    ProgrammeID: "otm-1d25ee85-df98-4c03-b4ff-6cf8e4a85c7e",
//	    Year:        2024,
//	})
//	// result.Files[0] is "otm-1d25ee85-df98-4c03-b4ff-6cf8e4a85c7e_2024.gv"
//
// # Main Packages
//
// [curriculum] holds the programme tree (Programme, Module, Course), the
// blacklist filter and wrapper compression.
//
// [annotation] loads the annotation JSON file and merges icons and manual
// prerequisites into the tree.
//
// [graph] flattens a programme into nodes, nested clusters and typed edges,
// and serializes the result as JSON.
//
// [render/dot] emits deterministic DOT text and renders it to SVG or PNG
// through an embedded Graphviz; [render] holds output formats and atomic
// file writes.
//
// [sisu] is the Sisu API client with the response cache, retries and an
// in-process memo; [sisu/sisutest] is a fake API for tests.
//
// [cache] provides the cache backends: file, Redis, MongoDB and null.
//
// [pipeline] runs fetch, filter, merge, build and emit with [observability]
// hooks around each stage.
//
// [errors] defines the FETCH_ERROR, CONFIG_ERROR and IO_ERROR codes.
//
// [curriculum]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/curriculum
// [annotation]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/annotation
// [graph]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/graph
// [render]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/render/dot
// [sisu]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/sisu
// [sisu/sisutest]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/sisu/sisutest
// [cache]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/observability
// [errors]: https://pkg.go.dev/github.com/sisugv/sisugv/pkg/errors
package pkg
