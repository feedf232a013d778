package curriculum

import "slices"

// FilterResult is the outcome of [Filter].
type FilterResult struct {
	Programme *Programme // Filtered deep copy
	Removed   []*Course  // Courses no longer present anywhere
	Unmatched []string   // Blacklist entries that named nothing
}

// Filter returns a copy of p without the blacklisted modules and courses.
//
// A blacklisted module takes its whole subtree with it. A course that only
// occurred inside removed subtrees counts as removed; one that also occurs
// elsewhere in the tree survives there. Removed courses are dropped from the
// external list and every prerequisite reference to them is deleted, so no
// later stage can draw an edge to a removed course. Modules left empty by
// the removal are dropped. Blacklist entries that match nothing are ignored
// and reported in Unmatched.
//
// p is not modified.
func Filter(p *Programme, blacklist []string) FilterResult {
	out := p.Clone()
	if len(blacklist) == 0 {
		return FilterResult{Programme: out}
	}

	f := &filter{blacklist: blacklist, matched: make(map[string]bool)}
	out.Modules = f.modules(out.Modules)

	kept := make(map[string]bool)
	out.Walk(func(m, _ *Module) {
		for _, c := range m.Courses {
			kept[c.ID] = true
		}
	})

	var removed []*Course
	seen := make(map[string]bool)
	for _, c := range f.dropped {
		if kept[c.ID] || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		removed = append(removed, c)
	}

	out.External = slices.DeleteFunc(out.External, func(c *Course) bool {
		if f.listed(c.ID, c.Code) {
			if !seen[c.ID] {
				seen[c.ID] = true
				removed = append(removed, c)
			}
			return true
		}
		return seen[c.ID]
	})

	gone := func(ident string) bool {
		if f.listed(ident) {
			return true
		}
		for _, c := range removed {
			if c.Matches(ident) {
				return true
			}
		}
		return false
	}
	for _, c := range out.Courses() {
		c.Compulsory = slices.DeleteFunc(c.Compulsory, gone)
		c.Recommended = slices.DeleteFunc(c.Recommended, gone)
		c.Requires = slices.DeleteFunc(c.Requires, gone)
	}

	var unmatched []string
	for _, b := range blacklist {
		if !f.matched[b] {
			unmatched = append(unmatched, b)
		}
	}

	return FilterResult{Programme: out, Removed: removed, Unmatched: unmatched}
}

type filter struct {
	blacklist []string
	matched   map[string]bool
	dropped   []*Course
}

// listed reports whether any blacklist entry names one of the identifiers
// and records the entries that matched.
func (f *filter) listed(idents ...string) bool {
	hit := false
	for _, b := range f.blacklist {
		if Match(b, idents...) {
			f.matched[b] = true
			hit = true
		}
	}
	return hit
}

func (f *filter) modules(ms []*Module) []*Module {
	out := ms[:0]
	for _, m := range ms {
		if f.listed(m.ID, m.Code) {
			f.collect(m)
			continue
		}
		before := len(m.Courses) + len(m.Modules)
		m.Courses = slices.DeleteFunc(m.Courses, func(c *Course) bool {
			if f.listed(c.ID, c.Code) {
				f.dropped = append(f.dropped, c)
				return true
			}
			return false
		})
		m.Modules = f.modules(m.Modules)
		if before > 0 && len(m.Courses)+len(m.Modules) == 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (f *filter) collect(m *Module) {
	f.dropped = append(f.dropped, m.Courses...)
	for _, sm := range m.Modules {
		f.collect(sm)
	}
}
