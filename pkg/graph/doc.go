// Package graph holds the prerequisite graph built from a curriculum and
// its JSON serialization.
//
// # Overview
//
// A [Graph] is an arena: nodes live in one insertion-ordered slice and are
// found through an identifier-keyed index. Edges are directed from the
// prerequisite to the dependent course and carry an [EdgeKind]. Clusters
// mirror the module tree and refer to nodes by identifier, so the graph
// has no back-references.
//
// Cycles in the source data are kept as they are. The graph never
// reorders anything: emission order is insertion order, which makes the
// DOT output reproducible.
//
// # Building
//
// [Build] flattens a curriculum.Programme:
//
//	g := graph.Build(programme, graph.BuildOptions{AlsoRecommended: true})
//
// # Serialization
//
// [WriteJSON] and [MarshalJSON] export the graph in a node-link JSON form
// for tools other than Graphviz:
//
//	{
//	  "nodes": [{"id": "A", "label": "Course A", "cluster": "m1"}],
//	  "edges": [{"from": "A", "to": "B", "kind": "compulsory"}]
//	}
package graph
