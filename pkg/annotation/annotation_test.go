package annotation

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/sisugv/sisugv/pkg/curriculum"
	sgerrors "github.com/sisugv/sisugv/pkg/errors"
)

func TestParse(t *testing.T) {
	a, err := Parse([]byte(`{
		"B": {"icon": "icon.svg"},
		"COMP.CS.300": {"requires": ["COMP.CS.110", "MATH.1"]},
		"empty": {}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !slices.Equal(a.Keys, []string{"B", "COMP.CS.300", "empty"}) {
		t.Errorf("Keys = %v", a.Keys)
	}
	if got := a.Entries["B"].Icon; got == nil || *got != "icon.svg" {
		t.Errorf("B.Icon = %v", got)
	}
	if got := a.Entries["COMP.CS.300"].Requires; !slices.Equal(got, []string{"COMP.CS.110", "MATH.1"}) {
		t.Errorf("Requires = %v", got)
	}
	if a.Len() != 3 {
		t.Errorf("Len = %d", a.Len())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"B": `},
		{"array", `["B"]`},
		{"string", `"B"`},
		{"entry not object", `{"B": "icon.svg"}`},
		{"entry null", `{"B": null}`},
		{"unknown field", `{"B": {"icon": "x", "colour": "red"}}`},
		{"icon wrong type", `{"B": {"icon": 3}}`},
		{"requires wrong type", `{"B": {"requires": "A"}}`},
		{"requires empty id", `{"B": {"requires": [""]}}`},
		{"trailing data", `{"B": {}} {}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Errorf("Parse(%s) = nil error", tt.input)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "extra.json")
	if err := os.WriteFile(good, []byte(`{"B": {"icon": "icon.svg"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := Load(good)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Len() != 1 {
		t.Errorf("Len = %d", a.Len())
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"B": [1]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !sgerrors.Is(err, sgerrors.ErrCodeConfig) {
		t.Errorf("Load(bad) = %v, want CONFIG_ERROR", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !sgerrors.Is(err, sgerrors.ErrCodeConfig) {
		t.Errorf("Load(missing) = %v, want CONFIG_ERROR", err)
	}
}

func programme() *curriculum.Programme {
	return &curriculum.Programme{
		ID: "otm-1",
		Modules: []*curriculum.Module{{
			ID:   "m",
			Name: "Module",
			Courses: []*curriculum.Course{
				{ID: "A", Code: "A", Name: "Course A"},
				{ID: "B", Code: "B", Name: "Course B", Compulsory: []string{"A"}},
				{ID: "uta-ykoodi-3", Code: "COMP.CS.300", Name: "Data structures"},
			},
		}},
		External: []*curriculum.Course{{ID: "uta-ykoodi-9", Code: "COMP.CS.110", Name: "Programming 2"}},
	}
}

func mustParse(t *testing.T, s string) *Annotations {
	t.Helper()
	a, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return a
}

func TestMergeIcon(t *testing.T) {
	p := programme()
	res := Merge(p, mustParse(t, `{"B": {"icon": "icon.svg"}}`))

	b, _ := p.Lookup("B")
	a, _ := p.Lookup("A")
	if b.Icon != "icon.svg" {
		t.Errorf("B.Icon = %q", b.Icon)
	}
	if a.Icon != "" {
		t.Errorf("A.Icon = %q, want unchanged", a.Icon)
	}
	if res.Applied != 1 || len(res.Unmatched) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestMergeRequiresByKey(t *testing.T) {
	p := programme()
	Merge(p, mustParse(t, `{"COMP_CS_300": {"requires": ["COMP.CS.110"]}}`))

	c, _ := p.Lookup("uta-ykoodi-3")
	if !slices.Equal(c.Requires, []string{"COMP.CS.110"}) {
		t.Errorf("Requires = %v", c.Requires)
	}
}

func TestMergeExternalCourse(t *testing.T) {
	p := programme()
	Merge(p, mustParse(t, `{"COMP.CS.110": {"icon": "cpp.svg"}}`))
	if p.External[0].Icon != "cpp.svg" {
		t.Errorf("external icon = %q", p.External[0].Icon)
	}
}

func TestMergeUnknownCourseIgnored(t *testing.T) {
	p := programme()
	before := p.Clone()

	res := Merge(p, mustParse(t, `{"Z": {"icon": "z.svg", "requires": ["A"]}}`))

	if !reflect.DeepEqual(p, before) {
		t.Error("unmatched entry changed the programme")
	}
	if !slices.Equal(res.Unmatched, []string{"Z"}) || res.Applied != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := mustParse(t, `{
		"B": {"icon": "icon.svg", "requires": ["COMP.CS.300", "A"]},
		"A": {"requires": ["COMP.CS.110"]}
	}`)

	once := programme()
	Merge(once, a)

	twice := programme()
	Merge(twice, a)
	Merge(twice, a)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging twice differs from merging once")
	}
}

func TestMergeNil(t *testing.T) {
	p := programme()
	res := Merge(p, nil)
	if res.Applied != 0 || res.Unmatched != nil {
		t.Errorf("Merge(nil) = %+v", res)
	}
}
