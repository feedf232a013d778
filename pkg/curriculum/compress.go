package curriculum

// Compress replaces every top-level module whose only child is a module
// with that child, repeatedly, so chains of wrappers collapse to the first
// module with real content. Wrappers of this kind come from rule groupings
// that carry no information for the graph.
func Compress(p *Programme) {
	for i, m := range p.Modules {
		for len(m.Courses) == 0 && len(m.Modules) == 1 {
			m = m.Modules[0]
		}
		p.Modules[i] = m
	}
}
