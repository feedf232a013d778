package dot

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/sisugv/sisugv/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// TableLabels draws each course as a two-row HTML-like table (code on
	// top, wrapped name below) instead of a two-line box label.
	TableLabels bool
}

const (
	wrapWidth    = 20
	wrapMaxLines = 3
	placeholder  = "..."
)

var edgeStyles = map[graph.EdgeKind]string{
	graph.EdgeRecommended: "dashed",
	graph.EdgeManual:      "dotted",
}

// ToDOT converts g to Graphviz DOT text.
func ToDOT(g *graph.Graph, opts Options) string {
	w := &writer{g: g, opts: opts}
	w.line(0, "digraph G {")
	w.line(1, `rankdir="LR";`)
	if opts.TableLabels {
		w.line(1, "node [shape=plaintext];")
	} else {
		w.line(1, "node [shape=box];")
	}

	for _, idx := range g.RootClusters() {
		w.cluster(idx, 1)
	}

	if loose := g.LooseNodes(); len(loose) > 0 {
		ids := make([]string, len(loose))
		for i, n := range loose {
			ids[i] = ID(n.ID) + ";"
		}
		w.line(1, "{ rank=source; "+strings.Join(ids, " ")+" }")
		for _, n := range loose {
			w.node(n, 1)
		}
	}

	for _, e := range g.Edges() {
		stmt := ID(e.From) + " -> " + ID(e.To)
		if style, ok := edgeStyles[e.Kind]; ok {
			stmt += fmt.Sprintf(" [style=%q]", style)
		}
		w.line(1, stmt+";")
	}
	w.line(0, "}")
	return w.buf.String()
}

type writer struct {
	g    *graph.Graph
	opts Options
	buf  bytes.Buffer
	seq  int
}

func (w *writer) line(indent int, s string) {
	w.buf.WriteString(strings.Repeat("  ", indent))
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *writer) cluster(idx, indent int) {
	if !w.populated(idx) {
		return
	}
	c := w.g.Cluster(idx)
	w.seq++
	w.line(indent, fmt.Sprintf("subgraph cluster_%d {", w.seq))
	w.line(indent+1, "label="+quote(c.Label)+";")
	for _, id := range c.Nodes {
		n, _ := w.g.Node(id)
		w.node(n, indent+1)
	}
	for _, child := range c.Children {
		w.cluster(child, indent+1)
	}
	w.line(indent, "}")
}

// populated reports whether the cluster or one of its descendants holds a
// node. Empty clusters are not written.
func (w *writer) populated(idx int) bool {
	c := w.g.Cluster(idx)
	if len(c.Nodes) > 0 {
		return true
	}
	return slices.ContainsFunc(c.Children, w.populated)
}

func (w *writer) node(n *graph.Node, indent int) {
	code := n.Code
	if code == "" {
		code = n.ID
	}
	image, glyph := splitIcon(n.Icon)

	var attrs []string
	if w.opts.TableLabels {
		attrs = append(attrs, "label="+tableLabel(code, glyph, n.Label))
	} else {
		attrs = append(attrs, "label="+quote(plainLabel(code, glyph, n.Label)))
	}
	if image != "" {
		attrs = append(attrs, "image="+quote(image))
	}
	w.line(indent, ID(n.ID)+" ["+strings.Join(attrs, ", ")+"];")
}

func plainLabel(code, glyph, name string) string {
	head := code
	if glyph != "" {
		head += " " + glyph
	}
	if name == "" || name == code {
		return head
	}
	return head + "\n" + name
}

func tableLabel(code, glyph, name string) string {
	head := code
	if glyph != "" {
		head += " " + glyph
	}
	lines := Wrap(name, wrapWidth, wrapMaxLines)
	for i, l := range lines {
		lines[i] = htmlEscape(l)
	}
	return `<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">` +
		"<TR><TD>" + htmlEscape(head) + "</TD></TR>" +
		"<TR><TD>" + strings.Join(lines, "<BR/>") + "</TD></TR>" +
		"</TABLE>>"
}

var imageExts = []string{".svg", ".png", ".jpg", ".jpeg", ".gif"}

func splitIcon(icon string) (image, glyph string) {
	if icon == "" {
		return "", ""
	}
	if slices.Contains(imageExts, strings.ToLower(filepath.Ext(icon))) {
		return icon, ""
	}
	return "", icon
}

var (
	bareID    = regexp.MustCompile(`^[A-Za-z_\x{80}-\x{10FFFF}][A-Za-z0-9_\x{80}-\x{10FFFF}]*$`)
	numeralID = regexp.MustCompile(`^-?(\.[0-9]+|[0-9]+(\.[0-9]*)?)$`)
	keywords  = []string{"node", "edge", "graph", "digraph", "subgraph", "strict"}
)

// ID returns s as a DOT identifier: bare when s is a valid unquoted ID,
// quoted otherwise.
func ID(s string) string {
	if slices.Contains(keywords, strings.ToLower(s)) {
		return quote(s)
	}
	if bareID.MatchString(s) || numeralID.MatchString(s) {
		return s
	}
	return quote(s)
}

// quote returns s as a double-quoted DOT string. Newlines become the \n
// escape sequence.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// Wrap breaks text into lines of at most width runes on word boundaries.
// Words longer than width are split. When more than maxLines lines would be
// needed, the last kept line ends with "..." and still fits width.
func Wrap(text string, width, maxLines int) []string {
	var lines []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = nil
		}
	}
	for _, word := range strings.Fields(text) {
		rw := []rune(word)
		for len(rw) > width {
			if len(cur) > 0 && len(cur)+1 < width {
				room := width - len(cur) - 1
				cur = append(append(cur, ' '), rw[:room]...)
				rw = rw[room:]
			}
			flush()
			if len(rw) > width {
				lines = append(lines, string(rw[:width]))
				rw = rw[width:]
			}
		}
		if len(rw) == 0 {
			continue
		}
		switch {
		case len(cur) == 0:
			cur = rw
		case len(cur)+1+len(rw) <= width:
			cur = append(append(cur, ' '), rw...)
		default:
			flush()
			cur = rw
		}
	}
	flush()

	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	words := strings.Fields(lines[maxLines-1])
	for len(words) > 0 && len([]rune(strings.Join(words, " ")))+len(placeholder) > width {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		lines[maxLines-1] = placeholder
	} else {
		lines[maxLines-1] = strings.Join(words, " ") + placeholder
	}
	return lines
}
