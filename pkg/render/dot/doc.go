// Package dot serializes a prerequisite graph to Graphviz DOT.
//
// # Usage
//
//	text := dot.ToDOT(g, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, text)
//
// # Output
//
// [ToDOT] output depends only on the graph's insertion order, so the same
// graph always produces the same bytes. Modules become nested
// "subgraph cluster_N" blocks numbered in the order they are written.
// Courses outside every module are grouped with "rank=source" so they line
// up on the left of the left-to-right layout.
//
// Edge styles encode the prerequisite kind: compulsory edges are plain,
// recommended edges dashed and annotation edges dotted.
//
// An icon that looks like an image file (.svg, .png, .jpg, .jpeg, .gif) is
// emitted as the node's image attribute. Any other icon, such as an emoji,
// is appended to the course code in the label.
//
// # Rendering
//
// [RenderSVG] and [RenderPNG] run Graphviz in-process through
// [github.com/goccy/go-graphviz]; no Graphviz installation is needed.
package dot
