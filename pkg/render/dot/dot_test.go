package dot

import (
	"slices"
	"strings"
	"testing"

	"github.com/sisugv/sisugv/pkg/annotation"
	"github.com/sisugv/sisugv/pkg/curriculum"
	"github.com/sisugv/sisugv/pkg/graph"
)

func twoCourses() *curriculum.Programme {
	return &curriculum.Programme{
		ID: "otm-1",
		Modules: []*curriculum.Module{{
			ID:   "m1",
			Name: "Module",
			Courses: []*curriculum.Course{
				{ID: "c-a", Code: "A", Name: "Course A"},
				{ID: "c-b", Code: "B", Name: "Course B", Compulsory: []string{"c-a"}},
			},
		}},
	}
}

func emit(t *testing.T, p *curriculum.Programme, opts graph.BuildOptions) string {
	t.Helper()
	g, err := graph.Build(p, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ToDOT(g, Options{})
}

func TestToDOT(t *testing.T) {
	p := twoCourses()
	p.Modules[0].Courses[1].Icon = "icon.svg"
	p.Modules[0].Courses[1].Recommended = []string{"c-x"}
	p.Modules[0].Courses[1].Requires = []string{"C"}
	p.Modules = append(p.Modules, &curriculum.Module{
		ID:      "m2",
		Name:    `Say "hi"`,
		Courses: []*curriculum.Course{{ID: "c-c", Code: "C", Name: "Course C"}},
	})
	p.External = []*curriculum.Course{{ID: "c-x", Code: "X", Name: "External"}}

	got := emit(t, p, graph.BuildOptions{AlsoRecommended: true})
	want := `digraph G {
  rankdir="LR";
  node [shape=box];
  subgraph cluster_1 {
    label="Module";
    A [label="A\nCourse A"];
    B [label="B\nCourse B", image="icon.svg"];
  }
  subgraph cluster_2 {
    label="Say \"hi\"";
    C [label="C\nCourse C"];
  }
  { rank=source; X; }
  X [label="X\nExternal"];
  A -> B;
  X -> B [style="dashed"];
  C -> B [style="dotted"];
}
`
	if got != want {
		t.Errorf("ToDOT mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestScenarios(t *testing.T) {
	t.Run("prerequisite edge", func(t *testing.T) {
		out := emit(t, twoCourses(), graph.BuildOptions{})
		if !strings.Contains(out, "A -> B;") {
			t.Errorf("missing edge:\n%s", out)
		}
	})

	t.Run("blacklisted prerequisite", func(t *testing.T) {
		res := curriculum.Filter(twoCourses(), []string{"A"})
		out := emit(t, res.Programme, graph.BuildOptions{})
		if strings.Contains(out, "A [") || strings.Contains(out, "->") {
			t.Errorf("A still present:\n%s", out)
		}
		if !strings.Contains(out, `B [label="B\nCourse B"];`) {
			t.Errorf("B missing:\n%s", out)
		}
	})

	t.Run("icon annotation", func(t *testing.T) {
		ann, err := annotation.Parse([]byte(`{"B": {"icon": "icon.svg"}}`))
		if err != nil {
			t.Fatal(err)
		}
		p := twoCourses()
		annotation.Merge(p, ann)
		out := emit(t, p, graph.BuildOptions{})
		if !strings.Contains(out, `B [label="B\nCourse B", image="icon.svg"];`) {
			t.Errorf("icon missing:\n%s", out)
		}
		if !strings.Contains(out, `A [label="A\nCourse A"];`) {
			t.Errorf("A changed:\n%s", out)
		}
	})

	t.Run("unknown annotation", func(t *testing.T) {
		ann, err := annotation.Parse([]byte(`{"Z": {"icon": "z.svg", "requires": ["A"]}}`))
		if err != nil {
			t.Fatal(err)
		}
		p := twoCourses()
		annotation.Merge(p, ann)
		if got, want := emit(t, p, graph.BuildOptions{}), emit(t, twoCourses(), graph.BuildOptions{}); got != want {
			t.Errorf("output changed:\n%s\nwant:\n%s", got, want)
		}
	})
}

func TestToDOTDeterministic(t *testing.T) {
	first := emit(t, twoCourses(), graph.BuildOptions{})
	for range 10 {
		if got := emit(t, twoCourses(), graph.BuildOptions{}); got != first {
			t.Fatalf("output differs:\n%s\nvs\n%s", got, first)
		}
	}
}

func TestToDOTSkipsEmptyClusters(t *testing.T) {
	p := twoCourses()
	p.Modules = append([]*curriculum.Module{{ID: "empty", Name: "Empty", Modules: []*curriculum.Module{{ID: "e2"}}}}, p.Modules...)
	out := emit(t, p, graph.BuildOptions{})
	if strings.Contains(out, "Empty") || strings.Contains(out, "cluster_2") {
		t.Errorf("empty cluster written:\n%s", out)
	}
}

func TestTableLabels(t *testing.T) {
	p := twoCourses()
	p.Modules[0].Courses[0].Name = "Programming 1: Introduction & Basics of Everything Else"
	p.Modules[0].Courses[0].Icon = "★"
	g, _ := graph.Build(p, graph.BuildOptions{})
	out := ToDOT(g, Options{TableLabels: true})

	for _, want := range []string{
		"node [shape=plaintext];",
		`<TR><TD>A ★</TD></TR>`,
		`<TR><TD>Programming 1:<BR/>Introduction &amp;<BR/>Basics of...</TD></TR>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"COMP_CS_100", "COMP_CS_100"},
		{"_x1", "_x1"},
		{"42", "42"},
		{"otm-123", `"otm-123"`},
		{"1abc", `"1abc"`},
		{"node", `"node"`},
		{"Kurssi_ä", "Kurssi_ä"},
		{`a"b`, `"a\"b"`},
	}
	for _, tt := range tests {
		if got := ID(tt.in); got != tt.want {
			t.Errorf("ID(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"short", "Short name", []string{"Short name"}},
		{"two lines", "Introduction to Programming", []string{"Introduction to", "Programming"}},
		{"long word", "Ohjelmistotuotantoprojekti", []string{"Ohjelmistotuotantopr", "ojekti"}},
		{"truncated", "one two three four five six seven eight nine ten eleven twelve",
			[]string{"one two three four", "five six seven eight", "nine ten eleven..."}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, 20, 3); !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
