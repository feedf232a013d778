package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownCluster is returned by [Graph.AddNode] and
	// [Graph.AddCluster] for a cluster index that does not exist.
	ErrUnknownCluster = errors.New("unknown cluster")
)

// NoCluster is the cluster index of nodes drawn outside any module.
const NoCluster = -1

// Node is a course in the graph.
type Node struct {
	ID       string // Unique identifier, the course key
	CourseID string // Curriculum course id
	Code     string // Course code
	Label    string // Display name
	Icon     string // Icon reference, empty if none
	Cluster  int    // Index into Graph.Clusters, or NoCluster
}

// Loose reports whether the node is drawn outside every cluster.
func (n Node) Loose() bool { return n.Cluster == NoCluster }

// EdgeKind distinguishes the origin of a prerequisite edge.
type EdgeKind int

const (
	// EdgeCompulsory is a compulsory formal prerequisite.
	EdgeCompulsory EdgeKind = iota
	// EdgeRecommended is a recommended formal prerequisite.
	EdgeRecommended
	// EdgeManual comes from an annotation file.
	EdgeManual
)

var edgeKindNames = [...]string{"compulsory", "recommended", "manual"}

// String returns the lower-case kind name.
func (k EdgeKind) String() string {
	if int(k) < len(edgeKindNames) {
		return edgeKindNames[k]
	}
	return "unknown"
}

// Edge is a directed prerequisite relation: From must (or should) be taken
// before To.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Cluster groups nodes that belong to one module.
type Cluster struct {
	ID       string   // Module id
	Label    string   // Module name
	Parent   int      // Parent cluster index, or NoCluster
	Children []int    // Child cluster indexes in insertion order
	Nodes    []string // Node IDs in insertion order
}

// Graph is an insertion-ordered directed graph of courses.
//
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes    []*Node
	index    map[string]int
	edges    []Edge
	edgeSet  map[Edge]bool
	outgoing map[string][]string
	incoming map[string][]string
	clusters []*Cluster
	roots    []int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:    make(map[string]int),
		edgeSet:  make(map[Edge]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddCluster appends a cluster under parent (NoCluster for a top-level
// cluster) and returns its index.
func (g *Graph) AddCluster(parent int, id, label string) (int, error) {
	if parent != NoCluster && (parent < 0 || parent >= len(g.clusters)) {
		return NoCluster, ErrUnknownCluster
	}
	idx := len(g.clusters)
	g.clusters = append(g.clusters, &Cluster{ID: id, Label: label, Parent: parent})
	if parent == NoCluster {
		g.roots = append(g.roots, idx)
	} else {
		g.clusters[parent].Children = append(g.clusters[parent].Children, idx)
	}
	return idx, nil
}

// AddNode appends a node. Returns ErrInvalidNodeID for an empty ID,
// ErrDuplicateNodeID if the ID is taken and ErrUnknownCluster for an
// invalid cluster index.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Cluster != NoCluster {
		if n.Cluster < 0 || n.Cluster >= len(g.clusters) {
			return ErrUnknownCluster
		}
		g.clusters[n.Cluster].Nodes = append(g.clusters[n.Cluster].Nodes, n.ID)
	}
	node := n
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, &node)
	return nil
}

// AddEdge appends an edge between two existing nodes. Adding an edge that
// is already present (same endpoints and kind) is a no-op and reports
// false. Self-loops and cycles are accepted.
func (g *Graph) AddEdge(e Edge) (bool, error) {
	if _, ok := g.index[e.From]; !ok {
		return false, ErrUnknownSourceNode
	}
	if _, ok := g.index[e.To]; !ok {
		return false, ErrUnknownTargetNode
	}
	if g.edgeSet[e] {
		return false, nil
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return true, nil
}

// Node returns the node with the given ID.
// The returned pointer refers to the node in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// nodes in the graph.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// LooseNodes returns the nodes outside every cluster, in insertion order.
func (g *Graph) LooseNodes() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Loose() {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Cluster returns the cluster at index i.
func (g *Graph) Cluster(i int) *Cluster { return g.clusters[i] }

// Clusters returns all clusters in insertion order.
func (g *Graph) Clusters() []*Cluster { return slices.Clone(g.clusters) }

// RootClusters returns the indexes of top-level clusters in insertion order.
func (g *Graph) RootClusters() []int { return slices.Clone(g.roots) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs of the courses that list id as a prerequisite.
// The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of the prerequisites of id.
// The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }
