package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Document is the node-link JSON form of a [Graph].
type Document struct {
	Nodes    []DocNode    `json:"nodes"`
	Edges    []DocEdge    `json:"edges"`
	Clusters []DocCluster `json:"clusters,omitempty"`
}

// DocNode is a node in a [Document].
type DocNode struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id,omitempty"`
	Code     string `json:"code,omitempty"`
	Label    string `json:"label"`
	Icon     string `json:"icon,omitempty"`
	Cluster  string `json:"cluster,omitempty"`
}

// DocEdge is an edge in a [Document].
type DocEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// DocCluster is a cluster in a [Document]. Clusters are listed in
// depth-first order so a parent always precedes its children.
type DocCluster struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Parent string `json:"parent,omitempty"`
}

// ToDocument converts g to its JSON form, preserving insertion order.
func ToDocument(g *Graph) Document {
	doc := Document{
		Nodes: make([]DocNode, 0, g.NodeCount()),
		Edges: make([]DocEdge, 0, g.EdgeCount()),
	}
	clusterID := func(i int) string {
		if i == NoCluster {
			return ""
		}
		return g.clusters[i].ID
	}
	for _, c := range g.clusters {
		doc.Clusters = append(doc.Clusters, DocCluster{ID: c.ID, Label: c.Label, Parent: clusterID(c.Parent)})
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, DocNode{
			ID:       n.ID,
			CourseID: n.CourseID,
			Code:     n.Code,
			Label:    n.Label,
			Icon:     n.Icon,
			Cluster:  clusterID(n.Cluster),
		})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, DocEdge{From: e.From, To: e.To, Kind: e.Kind.String()})
	}
	return doc
}

// MarshalJSON encodes g as indented JSON.
func MarshalJSON(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON encodes g as indented JSON and writes it to w.
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by [WriteJSON] back into a graph.
// Cluster ids must be unique for the round trip to be exact.
func ReadJSON(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument rebuilds a graph from its JSON form.
func FromDocument(doc Document) (*Graph, error) {
	g := New()
	clusters := make(map[string]int, len(doc.Clusters))
	lookup := func(id string) (int, error) {
		if id == "" {
			return NoCluster, nil
		}
		i, ok := clusters[id]
		if !ok {
			return NoCluster, fmt.Errorf("cluster %q: %w", id, ErrUnknownCluster)
		}
		return i, nil
	}
	for _, c := range doc.Clusters {
		parent, err := lookup(c.Parent)
		if err != nil {
			return nil, err
		}
		i, err := g.AddCluster(parent, c.ID, c.Label)
		if err != nil {
			return nil, err
		}
		clusters[c.ID] = i
	}
	for _, n := range doc.Nodes {
		cluster, err := lookup(n.Cluster)
		if err != nil {
			return nil, err
		}
		node := Node{ID: n.ID, CourseID: n.CourseID, Code: n.Code, Label: n.Label, Icon: n.Icon, Cluster: cluster}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		kind, err := parseEdgeKind(e.Kind)
		if err != nil {
			return nil, err
		}
		if _, err := g.AddEdge(Edge{From: e.From, To: e.To, Kind: kind}); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

func parseEdgeKind(s string) (EdgeKind, error) {
	for i, name := range edgeKindNames {
		if name == s {
			return EdgeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown edge kind %q", s)
}
