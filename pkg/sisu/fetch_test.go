package sisu_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/sisugv/sisugv/pkg/cache"
	"github.com/sisugv/sisugv/pkg/curriculum"
	sgerrors "github.com/sisugv/sisugv/pkg/errors"
	"github.com/sisugv/sisugv/pkg/sisu"
	"github.com/sisugv/sisugv/pkg/sisu/sisutest"
)

// programme registers a small programme:
//
//	otm-1
//	  g-basics:   A, B (requires A)
//	  g-advanced: C (requires B, X), elective group "Valinnaiset": D (requires missing)
//
// X is a course outside the programme.
func programme(srv *sisutest.Server) {
	srv.AddProgramme(sisu.ModuleVersion{
		ID:   "otm-1",
		Code: "TST",
		Type: "DegreeProgramme",
		Name: sisutest.Name("Testiohjelma"),
		Rule: sisutest.Credits(sisutest.Composite(
			sisutest.Composite(sisutest.ModuleRef("g-basics"), sisutest.ModuleRef("g-advanced")),
		)),
	})
	srv.AddModuleGroup("g-basics", sisutest.Module("g-basics", "BAS", "Perusopinnot",
		sisutest.Composite(sisutest.CourseRef("c-a"), sisutest.CourseRef("c-b"))))
	elective := sisutest.Composite(sisutest.CourseRef("c-d"))
	elective.Description = sisu.Localized{"fi": "<p>Valinnaiset</p>"}
	srv.AddModuleGroup("g-advanced", sisutest.Module("g-advanced", "ADV", "Syventävät",
		sisutest.Composite(sisutest.CourseRef("c-c"), elective)))

	srv.AddCourseUnit("c-a", sisutest.Course("c-a", "A.1", "Course A"))
	srv.AddCourseUnit("c-b", sisutest.Course("c-b", "B.1", "Course B", "c-a"))
	srv.AddCourseUnit("c-c", sisutest.Course("c-c", "C.1", "Course C", "c-b", "c-x"))
	srv.AddCourseUnit("c-d", sisutest.Course("c-d", "D.1", "Course D", "c-missing"))
	srv.AddCourseUnit("c-x", sisutest.Course("c-x", "X.1", "External X"))
}

func newClient(srv *sisutest.Server, cfg sisu.Config) *sisu.Client {
	cfg.BaseURL = srv.URL
	return sisu.NewClient(cfg)
}

func TestFetch(t *testing.T) {
	srv := sisutest.NewServer(t)
	programme(srv)

	p, err := newClient(srv, sisu.Config{}).Fetch(context.Background(), "otm-1", 2024)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if p.Name != "Testiohjelma" || p.Curriculum != "uta-lvv-2024" || p.Year != 2024 {
		t.Errorf("programme = %+v", p)
	}

	var modules []string
	p.Walk(func(m, _ *curriculum.Module) { modules = append(modules, m.Name) })
	if want := []string{"Perusopinnot", "Syventävät", "Valinnaiset"}; !slices.Equal(modules, want) {
		t.Errorf("modules = %v, want %v", modules, want)
	}
	if kind := p.Modules[1].Modules[0].Kind; kind != curriculum.ModuleKindGrouping {
		t.Errorf("elective kind = %q", kind)
	}

	c, ok := p.Lookup("C_1")
	if !ok {
		t.Fatal("C.1 missing")
	}
	if want := []string{"c-b", "c-x"}; !slices.Equal(c.Compulsory, want) {
		t.Errorf("C prerequisites = %v, want %v", c.Compulsory, want)
	}
	d, _ := p.Lookup("D.1")
	if len(d.Compulsory) != 0 {
		t.Errorf("unresolved prerequisite kept: %v", d.Compulsory)
	}
	if len(p.External) != 1 || p.External[0].Code != "X.1" {
		t.Errorf("external = %+v", p.External)
	}
}

func TestFetchUnknownProgramme(t *testing.T) {
	srv := sisutest.NewServer(t)
	_, err := newClient(srv, sisu.Config{}).Fetch(context.Background(), "otm-nope", 2024)
	if !sgerrors.Is(err, sgerrors.ErrCodeFetch) {
		t.Fatalf("err = %v, want FETCH_ERROR", err)
	}
	if !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("err = %v, want wrapped ErrNotFound", err)
	}
}

func TestFetchCurriculumPeriod(t *testing.T) {
	srv := sisutest.NewServer(t)
	srv.AddProgramme(sisu.ModuleVersion{
		ID:   "otm-2",
		Name: sisutest.Name("Ohjelma"),
		Rule: sisutest.Composite(sisutest.ModuleRef("g")),
	})
	srv.AddModuleGroup("g",
		sisutest.Module("g", "", "Vanha", sisutest.Composite(sisutest.CourseRef("c-old")), "uta-lvv-2023"),
		sisutest.Module("g", "", "Uusi", sisutest.Composite(sisutest.CourseRef("c-new")), "uta-lvv-2024", "uta-lvv-2025"),
	)
	old := sisutest.Course("c-new", "NEW.1", "Old name")
	old.CurriculumPeriodIDs = []string{"uta-lvv-2023"}
	srv.AddCourseUnit("c-new", old, sisutest.Course("c-new", "NEW.1", "Current name"))
	srv.AddCourseUnit("c-old", sisutest.Course("c-old", "OLD.1", "Old course"))

	p, err := newClient(srv, sisu.Config{}).Fetch(context.Background(), "otm-2", 2024)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(p.Modules) != 1 || p.Modules[0].Name != "Uusi" {
		t.Fatalf("modules = %+v", p.Modules)
	}
	courses := p.Courses()
	if len(courses) != 1 || courses[0].Name != "Current name" {
		t.Errorf("courses = %+v", courses)
	}

	if _, err := newClient(srv, sisu.Config{}).Fetch(context.Background(), "otm-2", 2030); err != nil {
		t.Fatalf("Fetch 2030: %v", err)
	}
}

func TestFetchLanguageFallback(t *testing.T) {
	tests := []struct {
		lang string
		name sisu.Localized
		want string
	}{
		{"", sisu.Localized{"fi": "Suomi", "en": "English"}, "Suomi"},
		{"en", sisu.Localized{"fi": "Suomi", "en": "English"}, "English"},
		{"sv", sisu.Localized{"fi": "Suomi", "en": "English"}, "Suomi"},
		{"", sisu.Localized{"en": "Only English"}, "Only English"},
		{"fi", sisu.Localized{"sv": "Svenska"}, "Svenska"},
		{"", nil, ""},
	}
	for _, tt := range tests {
		if got := tt.name.Pick(tt.lang); got != tt.want {
			t.Errorf("Pick(%q) on %v = %q, want %q", tt.lang, tt.name, got, tt.want)
		}
	}
}

func TestFetchPrerequisiteFiltering(t *testing.T) {
	srv := sisutest.NewServer(t)
	srv.AddProgramme(sisu.ModuleVersion{
		ID:   "otm-3",
		Name: sisutest.Name("Ohjelma"),
		Rule: sisutest.Composite(sisutest.ModuleRef("g")),
	})
	mandatory := sisutest.Composite(sisutest.CourseRef("c-a"), sisutest.CourseRef("c-b"), &sisu.Rule{Type: "AnyCourseUnitRule"})
	mandatory.AllMandatory = true
	srv.AddModuleGroup("g", sisutest.Module("g", "", "Moduuli", sisutest.Composite(mandatory)))
	srv.AddCourseUnit("c-a", sisutest.Course("c-a", "A", "A"))

	b := sisutest.Course("c-b", "B", "B")
	b.CompulsoryFormalPrerequisites = []sisu.PrerequisiteGroup{{Prerequisites: []sisu.Prerequisite{
		{Type: "ModulePrerequisite", ModuleGroupID: "g-other"},
		{Type: sisu.PrerequisiteCourseUnit, CourseUnitGroupID: "c-a"},
		{Type: sisu.PrerequisiteCourseUnit, CourseUnitGroupID: "c-a"},
	}}}
	b.RecommendedFormalPrerequisites = []sisu.PrerequisiteGroup{sisutest.Prereqs("c-a", "c-x")}
	srv.AddCourseUnit("c-b", b)
	srv.AddCourseUnit("c-x", sisutest.Course("c-x", "X", "X"))

	p, err := newClient(srv, sisu.Config{}).Fetch(context.Background(), "otm-3", 2024)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// The study module only wraps the group, so it is compressed away.
	group := p.Modules[0]
	if group.Name != "Pakolliset" {
		t.Errorf("group name = %q, want Pakolliset", group.Name)
	}
	cb, _ := p.Lookup("B")
	if !slices.Equal(cb.Compulsory, []string{"c-a"}) {
		t.Errorf("compulsory = %v", cb.Compulsory)
	}
	if !slices.Equal(cb.Recommended, []string{"c-x"}) {
		t.Errorf("recommended = %v, want compulsory ids removed", cb.Recommended)
	}
}

func TestFetchCache(t *testing.T) {
	srv := sisutest.NewServer(t)
	programme(srv)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := newClient(srv, sisu.Config{Cache: fc}).Fetch(ctx, "otm-1", 2024); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	first := srv.Total()

	if _, err := newClient(srv, sisu.Config{Cache: fc}).Fetch(ctx, "otm-1", 2024); err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	// Only the missing course is asked for again; 404s are not cached.
	if got := srv.Total() - first; got != 1 {
		t.Errorf("cached run made %d requests, want 1", got)
	}

	before := srv.Total()
	if _, err := newClient(srv, sisu.Config{Cache: fc, Refresh: true}).Fetch(ctx, "otm-1", 2024); err != nil {
		t.Fatalf("refresh Fetch: %v", err)
	}
	if got := srv.Total() - before; got != first {
		t.Errorf("refresh made %d requests, want %d", got, first)
	}
}

func TestClientMemo(t *testing.T) {
	srv := sisutest.NewServer(t)
	srv.AddCourseUnit("c-a", sisutest.Course("c-a", "A", "A"))
	c := newClient(srv, sisu.Config{})
	for range 3 {
		if _, err := c.CourseUnitGroup(context.Background(), "c-a"); err != nil {
			t.Fatal(err)
		}
	}
	if got := srv.Hits("/course-units/by-group-id"); got != 1 {
		t.Errorf("hits = %d, want 1", got)
	}
}

func TestFetchRetries(t *testing.T) {
	srv := sisutest.NewServer(t)
	programme(srv)
	ctx := context.Background()

	srv.FailNext(http.StatusServiceUnavailable)
	_, err := newClient(srv, sisu.Config{}).Fetch(ctx, "otm-1", 2024)
	if !sgerrors.Is(err, sgerrors.ErrCodeFetch) || !errors.Is(err, cache.ErrNetwork) {
		t.Fatalf("without retries: err = %v, want FETCH_ERROR", err)
	}

	srv.FailNext(http.StatusServiceUnavailable, http.StatusBadGateway)
	_, err = newClient(srv, sisu.Config{Retries: 2, RetryDelay: time.Millisecond}).Fetch(ctx, "otm-1", 2024)
	if err != nil {
		t.Fatalf("with retries: %v", err)
	}
}

func TestFetchCancelled(t *testing.T) {
	srv := sisutest.NewServer(t)
	programme(srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(srv, sisu.Config{}).Fetch(ctx, "otm-1", 2024)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
