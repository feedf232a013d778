package graph

import (
	"fmt"
	"slices"

	"github.com/sisugv/sisugv/pkg/curriculum"
)

// BuildOptions controls which edges [Build] draws.
type BuildOptions struct {
	// AlsoRecommended adds recommended prerequisites as EdgeRecommended.
	AlsoRecommended bool
}

// courseInfo accumulates the attributes of one key across duplicate
// occurrences of a course.
type courseInfo struct {
	course      *curriculum.Course
	compulsory  []string
	recommended []string
	requires    []string
	icon        string
	external    bool
}

func (ci *courseInfo) absorb(c *curriculum.Course) {
	ci.compulsory = union(ci.compulsory, c.Compulsory)
	ci.recommended = union(ci.recommended, c.Recommended)
	ci.requires = union(ci.requires, c.Requires)
	if ci.icon == "" {
		ci.icon = c.Icon
	}
}

func union(dst, src []string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

// builder resolves prerequisite identifiers against every course of the
// programme, tree courses taking precedence over external ones.
type builder struct {
	g     *Graph
	opts  BuildOptions
	info  map[string]*courseInfo
	order []string // tree keys in first-seen order
	byKey map[string]string
}

// Build flattens p into a graph.
//
// Modules become clusters in depth-first order and courses become nodes in
// the first cluster they appear in. A course listed under several modules
// is one node whose prerequisites are the union of all occurrences.
// Edges are added in three passes (compulsory, recommended, manual), each
// in node order; references that resolve to no course are skipped. An
// external course becomes a loose node the first time it is the source of
// an edge. Prerequisites of external courses are not drawn.
func Build(p *curriculum.Programme, opts BuildOptions) (*Graph, error) {
	b := &builder{
		g:     New(),
		opts:  opts,
		info:  make(map[string]*courseInfo),
		byKey: make(map[string]string),
	}
	for _, m := range p.Modules {
		if err := b.addModule(m, NoCluster); err != nil {
			return nil, err
		}
	}
	for _, key := range b.order {
		n, _ := b.g.Node(key)
		n.Icon = b.info[key].icon
	}
	for _, c := range p.External {
		b.register(c, true)
	}
	b.index(p)

	for _, kind := range []EdgeKind{EdgeCompulsory, EdgeRecommended, EdgeManual} {
		if kind == EdgeRecommended && !opts.AlsoRecommended {
			continue
		}
		if err := b.addEdges(kind); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

func (b *builder) addModule(m *curriculum.Module, parent int) error {
	idx, err := b.g.AddCluster(parent, m.ID, m.Name)
	if err != nil {
		return fmt.Errorf("module %s: %w", m.ID, err)
	}
	for _, c := range m.Courses {
		key := c.Key()
		if key == "" {
			continue
		}
		if ci, seen := b.info[key]; seen {
			ci.absorb(c)
			continue
		}
		if err := b.g.AddNode(nodeFor(c, idx)); err != nil {
			return fmt.Errorf("course %s: %w", key, err)
		}
		b.register(c, false)
		b.order = append(b.order, key)
	}
	for _, sm := range m.Modules {
		if err := b.addModule(sm, idx); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) register(c *curriculum.Course, external bool) {
	key := c.Key()
	if key == "" {
		return
	}
	if ci, seen := b.info[key]; seen {
		if external {
			return
		}
		ci.absorb(c)
		return
	}
	ci := &courseInfo{course: c, external: external}
	ci.absorb(c)
	b.info[key] = ci
}

// index maps every identifier form (id, code, key) to the node key. The
// first course claiming an identifier wins.
func (b *builder) index(p *curriculum.Programme) {
	claim := func(ident, key string) {
		n := curriculum.NormalizeKey(ident)
		if n == "" {
			return
		}
		if _, taken := b.byKey[n]; !taken {
			b.byKey[n] = key
		}
	}
	for _, c := range p.Courses() {
		key := c.Key()
		if key == "" {
			continue
		}
		claim(c.ID, key)
		claim(c.Code, key)
		claim(key, key)
	}
}

func (b *builder) resolve(ident string) (string, bool) {
	key, ok := b.byKey[curriculum.NormalizeKey(ident)]
	return key, ok
}

func (b *builder) addEdges(kind EdgeKind) error {
	for _, to := range b.order {
		ci := b.info[to]
		var refs []string
		switch kind {
		case EdgeCompulsory:
			refs = ci.compulsory
		case EdgeRecommended:
			refs = ci.recommended
		case EdgeManual:
			refs = ci.requires
		}
		for _, ref := range refs {
			from, ok := b.resolve(ref)
			if !ok {
				continue
			}
			if err := b.ensureNode(from); err != nil {
				return err
			}
			if _, err := b.g.AddEdge(Edge{From: from, To: to, Kind: kind}); err != nil {
				return fmt.Errorf("edge %s -> %s: %w", from, to, err)
			}
		}
	}
	return nil
}

// ensureNode adds an external course as a loose node on first use.
func (b *builder) ensureNode(key string) error {
	if _, ok := b.g.Node(key); ok {
		return nil
	}
	ci := b.info[key]
	n := nodeFor(ci.course, NoCluster)
	n.Icon = ci.icon
	if err := b.g.AddNode(n); err != nil {
		return fmt.Errorf("course %s: %w", key, err)
	}
	return nil
}

func nodeFor(c *curriculum.Course, cluster int) Node {
	label := c.Name
	if label == "" {
		label = c.Key()
	}
	return Node{
		ID:       c.Key(),
		CourseID: c.ID,
		Code:     c.Code,
		Label:    label,
		Icon:     c.Icon,
		Cluster:  cluster,
	}
}
