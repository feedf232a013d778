package sisu

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/sisugv/sisugv/pkg/curriculum"
	sgerrors "github.com/sisugv/sisugv/pkg/errors"
)

// mandatoryGroupName labels anonymous groups whose courses are all
// compulsory ("Pakolliset" is Finnish for "compulsory").
const mandatoryGroupName = "Pakolliset"

var paragraphTags = regexp.MustCompile(`(?i)</?p\s*>`)

// Fetch downloads the programme with module id programmeID for the given
// academic year and returns its curriculum tree.
//
// Module groups and course units that do not exist or have no version for
// the curriculum period are skipped with a warning. Every other failure,
// including an unknown programme, is a FETCH_ERROR.
func (c *Client) Fetch(ctx context.Context, programmeID string, year int) (*curriculum.Programme, error) {
	period := curriculum.CurriculumPeriod(c.prefix, year)
	f := &fetch{
		c:        c,
		period:   period,
		courses:  make(map[string]*curriculum.Course),
		visiting: make(map[string]bool),
	}

	pv, err := c.Module(ctx, programmeID)
	if err != nil {
		if isNotFound(err) {
			return nil, sgerrors.Fetch(err, "unknown programme %s", programmeID)
		}
		return nil, sgerrors.Fetch(err, "fetch programme %s", programmeID)
	}
	if pv == nil {
		return nil, sgerrors.New(sgerrors.ErrCodeFetch, "empty response for programme %s", programmeID)
	}

	p := &curriculum.Programme{
		ID:         programmeID,
		Code:       pv.Code,
		Name:       pv.Name.Pick(c.lang),
		Year:       year,
		Curriculum: period,
	}
	c.logger.Info("Fetching programme", "id", programmeID, "name", p.Name, "curriculum", period)

	items, err := f.rule(ctx, pv.Rule)
	if err != nil {
		return nil, sgerrors.Fetch(err, "fetch programme %s", programmeID)
	}
	p.Modules = f.topLevel(p, items)

	if err := f.resolveExternal(ctx, p); err != nil {
		return nil, sgerrors.Fetch(err, "resolve prerequisites of %s", programmeID)
	}
	curriculum.Compress(p)
	return p, nil
}

// item is a parsed rule child: either a module or a course.
type item struct {
	module *curriculum.Module
	course *curriculum.Course
}

type fetch struct {
	c      *Client
	period string

	// courses maps a course unit group id to its parsed course, or nil when
	// the group does not resolve for the period.
	courses  map[string]*curriculum.Course
	visiting map[string]bool
}

// rule walks a rule tree and returns its children in rule order.
func (f *fetch) rule(ctx context.Context, r *Rule) ([]item, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Type {
	case RuleCredits:
		return f.rule(ctx, r.Rule)
	case RuleComposite:
		var out []item
		for _, child := range r.Rules {
			it, err := f.child(ctx, child)
			if err != nil {
				return nil, err
			}
			out = append(out, it...)
		}
		return out, nil
	case RuleModule:
		return f.child(ctx, r)
	case RuleCourseUnit:
		return f.child(ctx, r)
	default:
		f.c.logger.Debug("skipping rule", "type", r.Type, "localId", r.LocalID)
		return nil, nil
	}
}

func (f *fetch) child(ctx context.Context, r *Rule) ([]item, error) {
	if r == nil {
		return nil, nil
	}
	switch {
	case r.ModuleGroupID != "":
		m, err := f.moduleGroup(ctx, r.ModuleGroupID)
		if err != nil || m == nil {
			return nil, err
		}
		return []item{{module: m}}, nil

	case r.CourseUnitGroupID != "":
		c, err := f.course(ctx, r.CourseUnitGroupID)
		if err != nil || c == nil {
			return nil, err
		}
		return []item{{course: c.Clone()}}, nil

	case r.Type == RuleComposite || r.Type == RuleCredits:
		items, err := f.rule(ctx, r)
		if err != nil || len(items) == 0 {
			return nil, err
		}
		m := &curriculum.Module{
			ID:   r.LocalID,
			Name: f.groupName(r),
			Kind: curriculum.ModuleKindGrouping,
		}
		fill(m, items)
		return []item{{module: m}}, nil

	default:
		f.c.logger.Debug("skipping rule", "type", r.Type, "localId", r.LocalID)
		return nil, nil
	}
}

func (f *fetch) groupName(r *Rule) string {
	if desc := r.Description.Pick(f.c.lang); desc != "" {
		return strings.TrimSpace(paragraphTags.ReplaceAllString(desc, ""))
	}
	if r.AllMandatory {
		return mandatoryGroupName
	}
	return ""
}

func fill(m *curriculum.Module, items []item) {
	for _, it := range items {
		if it.module != nil {
			m.Modules = append(m.Modules, it.module)
		} else {
			m.Courses = append(m.Courses, it.course)
		}
	}
}

// moduleGroup returns the first version of a module group that is valid for
// the period and has content, or nil.
func (f *fetch) moduleGroup(ctx context.Context, groupID string) (*curriculum.Module, error) {
	if f.visiting[groupID] {
		f.c.logger.Warn("Module group contains itself, skipping", "group", groupID)
		return nil, nil
	}
	f.visiting[groupID] = true
	defer delete(f.visiting, groupID)

	versions, err := f.c.ModuleGroup(ctx, groupID)
	if err != nil {
		if isNotFound(err) {
			f.c.logger.Warn("Module group not found, skipping", "group", groupID)
			return nil, nil
		}
		return nil, err
	}
	for _, v := range versions {
		if !validFor(v.CurriculumPeriodIDs, f.period) {
			continue
		}
		items, err := f.rule(ctx, v.Rule)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}
		m := &curriculum.Module{
			ID:   groupID,
			Code: v.Code,
			Name: v.Name.Pick(f.c.lang),
			Kind: v.Type,
		}
		fill(m, items)
		return m, nil
	}
	f.c.logger.Warn("No module version for curriculum, skipping", "group", groupID, "curriculum", f.period)
	return nil, nil
}

// course parses a course unit group once per fetch. The returned course is
// shared; callers placing it in the tree clone it.
func (f *fetch) course(ctx context.Context, groupID string) (*curriculum.Course, error) {
	if c, seen := f.courses[groupID]; seen {
		return c, nil
	}
	versions, err := f.c.CourseUnitGroup(ctx, groupID)
	if err != nil {
		if isNotFound(err) {
			f.c.logger.Warn("Course unit not found, skipping", "group", groupID)
			f.courses[groupID] = nil
			return nil, nil
		}
		return nil, err
	}
	for _, v := range versions {
		if !validFor(v.CurriculumPeriodIDs, f.period) {
			continue
		}
		c := &curriculum.Course{
			ID:   groupID,
			Code: v.Code,
			Name: v.Name.Pick(f.c.lang),
		}
		c.Compulsory = f.prerequisites(groupID, v.CompulsoryFormalPrerequisites, nil)
		c.Recommended = f.prerequisites(groupID, v.RecommendedFormalPrerequisites, c.Compulsory)
		f.courses[groupID] = c
		return c, nil
	}
	f.c.logger.Warn("No course version for curriculum, skipping", "group", groupID, "curriculum", f.period)
	f.courses[groupID] = nil
	return nil, nil
}

// prerequisites flattens prerequisite groups into course unit group ids,
// dropping duplicates and ids already listed in exclude.
func (f *fetch) prerequisites(groupID string, groups []PrerequisiteGroup, exclude []string) []string {
	var out []string
	for _, g := range groups {
		for _, pr := range g.Prerequisites {
			if pr.Type != PrerequisiteCourseUnit || pr.CourseUnitGroupID == "" {
				f.c.logger.Debug("skipping non-course prerequisite", "course", groupID, "type", pr.Type)
				continue
			}
			id := pr.CourseUnitGroupID
			if slices.Contains(out, id) || slices.Contains(exclude, id) {
				continue
			}
			out = append(out, id)
		}
	}
	return out
}

// topLevel turns the programme's rule children into top-level modules. A
// lone anonymous wrapper is unwrapped, and courses listed directly under
// the programme are collected into a grouping named after it.
func (f *fetch) topLevel(p *curriculum.Programme, items []item) []*curriculum.Module {
	for len(items) == 1 && items[0].module != nil &&
		items[0].module.Kind == curriculum.ModuleKindGrouping && len(items[0].module.Courses) == 0 {
		var next []item
		for _, m := range items[0].module.Modules {
			next = append(next, item{module: m})
		}
		items = next
	}

	var modules []*curriculum.Module
	var loose *curriculum.Module
	for _, it := range items {
		if it.module != nil {
			modules = append(modules, it.module)
			continue
		}
		if loose == nil {
			loose = &curriculum.Module{ID: p.ID, Name: p.Name, Kind: curriculum.ModuleKindGrouping}
			modules = append(modules, loose)
		}
		loose.Courses = append(loose.Courses, it.course)
	}
	return modules
}

// resolveExternal fetches prerequisites that are not part of the tree and
// drops references that do not resolve for the period.
func (f *fetch) resolveExternal(ctx context.Context, p *curriculum.Programme) error {
	inTree := make(map[string]bool)
	tree := p.Courses()
	for _, c := range tree {
		inTree[c.ID] = true
	}
	added := make(map[string]bool)

	keep := func(ids []string) ([]string, error) {
		out := ids[:0]
		for _, id := range ids {
			if inTree[id] {
				out = append(out, id)
				continue
			}
			ext, err := f.course(ctx, id)
			if err != nil {
				return nil, err
			}
			if ext == nil {
				f.c.logger.Debug("dropping unresolved prerequisite", "id", id)
				continue
			}
			if !added[id] {
				added[id] = true
				p.External = append(p.External, ext.Clone())
			}
			out = append(out, id)
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil
	}

	var err error
	for _, c := range tree {
		if c.Compulsory, err = keep(c.Compulsory); err != nil {
			return err
		}
		if c.Recommended, err = keep(c.Recommended); err != nil {
			return err
		}
	}
	return nil
}
