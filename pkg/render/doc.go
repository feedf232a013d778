// Package render writes rendered graph artifacts to disk.
//
// # Overview
//
// Rendering itself lives in subpackages; this package holds what they
// share:
//
//   - [WriteFile] writes a file atomically, so a failed run never leaves a
//     truncated artifact behind
//   - [Format] and [ParseFormats] name the image formats the CLI can
//     produce next to the DOT file
//
// # DOT
//
// The [dot] subpackage turns a graph.Graph into Graphviz DOT text and
// renders DOT to SVG or PNG in-process:
//
//	text := dot.ToDOT(g, dot.Options{})
//	err := render.WriteFile("prog_2024.gv", []byte(text))
//	svg, err := dot.RenderSVG(ctx, text)
//
// [dot]: github.com/sisugv/sisugv/pkg/render/dot
package render
