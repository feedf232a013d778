package curriculum

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultCurriculumPrefix is the curriculum period prefix used by
// Tampere University ("uta-lvv-2024").
const DefaultCurriculumPrefix = "uta-lvv"

// CurriculumPeriod returns the curriculum period identifier for year,
// e.g. CurriculumPeriod("uta-lvv", 2024) == "uta-lvv-2024".
func CurriculumPeriod(prefix string, year int) string {
	if prefix == "" {
		prefix = DefaultCurriculumPrefix
	}
	return fmt.Sprintf("%s-%d", prefix, year)
}

// Programme is a degree programme for one academic year.
type Programme struct {
	ID         string    // Module id of the programme (e.g. "otm-...")
	Code       string    // Programme code, may be empty
	Name       string    // Display name
	Year       int       // Academic year the data was fetched for
	Curriculum string    // Curriculum period id (e.g. "uta-lvv-2024")
	Modules    []*Module // Top-level modules in API order
	External   []*Course // Prerequisite courses outside the tree, in discovery order
}

// ModuleKindGrouping marks anonymous rule groups that were turned into
// modules so their description can label a cluster.
const ModuleKindGrouping = "grouping"

// Module is a grouping of courses and sub-modules.
type Module struct {
	ID      string
	Code    string
	Name    string
	Kind    string // API module type, or ModuleKindGrouping
	Courses []*Course
	Modules []*Module
}

// Course is a leaf curriculum unit.
type Course struct {
	ID          string   // Course unit group id
	Code        string   // Course code (e.g. "COMP.CS.100")
	Name        string   // Display name
	Compulsory  []string // Compulsory prerequisite course ids
	Recommended []string // Recommended prerequisite course ids

	// Attributes supplied by annotations.
	Icon     string   // Icon reference (path or URL)
	Requires []string // Manual prerequisite identifiers (id, code or key)
}

// Key returns the course's graph identifier: the code with dots replaced
// by underscores, or the id when the course has no code.
func (c *Course) Key() string {
	if c.Code == "" {
		return c.ID
	}
	return NormalizeKey(c.Code)
}

// Matches reports whether ident names this course.
func (c *Course) Matches(ident string) bool {
	return Match(ident, c.ID, c.Code)
}

// Matches reports whether ident names this module.
func (m *Module) Matches(ident string) bool {
	return Match(ident, m.ID, m.Code)
}

// NormalizeKey converts a code into a key by replacing dots with underscores.
func NormalizeKey(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ".", "_")
}

// Match reports whether ident equals any of the candidate identifiers,
// comparing keys so that "COMP.CS.100" and "COMP_CS_100" are equal.
// Empty candidates never match.
func Match(ident string, candidates ...string) bool {
	want := NormalizeKey(ident)
	if want == "" {
		return false
	}
	for _, c := range candidates {
		if c != "" && NormalizeKey(c) == want {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the course.
func (c *Course) Clone() *Course {
	cp := *c
	cp.Compulsory = slices.Clone(c.Compulsory)
	cp.Recommended = slices.Clone(c.Recommended)
	cp.Requires = slices.Clone(c.Requires)
	return &cp
}

// Clone returns a deep copy of the module and its subtree.
func (m *Module) Clone() *Module {
	cp := *m
	cp.Courses = cloneAll(m.Courses)
	cp.Modules = cloneAll(m.Modules)
	return &cp
}

// Clone returns a deep copy of the programme.
func (p *Programme) Clone() *Programme {
	cp := *p
	cp.Modules = cloneAll(p.Modules)
	cp.External = cloneAll(p.External)
	return &cp
}

func cloneAll[T interface{ Clone() T }](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Walk calls fn for every module in depth-first pre-order together with
// its parent (nil for top-level modules).
func (p *Programme) Walk(fn func(m, parent *Module)) {
	var walk func(m, parent *Module)
	walk = func(m, parent *Module) {
		fn(m, parent)
		for _, sm := range m.Modules {
			walk(sm, m)
		}
	}
	for _, m := range p.Modules {
		walk(m, nil)
	}
}

// Courses returns every course of the tree in depth-first order, followed
// by the external courses. A course that occurs more than once in the tree
// is returned once per occurrence.
func (p *Programme) Courses() []*Course {
	var out []*Course
	p.Walk(func(m, _ *Module) {
		out = append(out, m.Courses...)
	})
	return append(out, p.External...)
}

// Lookup returns the first course (tree first, then external) named by ident.
func (p *Programme) Lookup(ident string) (*Course, bool) {
	for _, c := range p.Courses() {
		if c.Matches(ident) {
			return c, true
		}
	}
	return nil, false
}
