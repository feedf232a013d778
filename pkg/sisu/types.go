package sisu

import (
	"encoding/json"
	"slices"
)

// Localized is a Sisu localized string keyed by language ("fi", "en", "sv").
type Localized map[string]string

// Pick returns the text in lang, falling back to Finnish, then English,
// then any non-empty translation in language order.
func (l Localized) Pick(lang string) string {
	for _, k := range []string{lang, "fi", "en", "sv"} {
		if s := l[k]; k != "" && s != "" {
			return s
		}
	}
	return ""
}

// Rule is a node of a module's rule tree. Only the fields needed to walk
// the tree are decoded.
type Rule struct {
	Type              string    `json:"type"`
	LocalID           string    `json:"localId,omitempty"`
	Rule              *Rule     `json:"rule,omitempty"`
	Rules             []*Rule   `json:"rules,omitempty"`
	ModuleGroupID     string    `json:"moduleGroupId,omitempty"`
	CourseUnitGroupID string    `json:"courseUnitGroupId,omitempty"`
	Description       Localized `json:"description,omitempty"`
	AllMandatory      bool      `json:"allMandatory,omitempty"`
}

// Rule types understood by the fetcher.
const (
	RuleCredits    = "CreditsRule"
	RuleComposite  = "CompositeRule"
	RuleModule     = "ModuleRule"
	RuleCourseUnit = "CourseUnitRule"
)

// ModuleVersion is one version of a module (degree programme, study module
// or grouping module).
type ModuleVersion struct {
	ID                  string    `json:"id"`
	GroupID             string    `json:"groupId"`
	Code                string    `json:"code,omitempty"`
	Type                string    `json:"type"`
	Name                Localized `json:"name"`
	CurriculumPeriodIDs []string  `json:"curriculumPeriodIds"`
	Rule                *Rule     `json:"rule,omitempty"`
}

// CourseUnitVersion is one version of a course unit.
type CourseUnitVersion struct {
	ID                             string              `json:"id"`
	GroupID                        string              `json:"groupId"`
	Code                           string              `json:"code"`
	Name                           Localized           `json:"name"`
	CurriculumPeriodIDs            []string            `json:"curriculumPeriodIds"`
	CompulsoryFormalPrerequisites  []PrerequisiteGroup `json:"compulsoryFormalPrerequisites"`
	RecommendedFormalPrerequisites []PrerequisiteGroup `json:"recommendedFormalPrerequisites"`
}

// PrerequisiteGroup is one alternative set of prerequisites.
type PrerequisiteGroup struct {
	Prerequisites []Prerequisite `json:"prerequisites"`
}

// PrerequisiteCourseUnit is the only prerequisite type drawn in the graph.
const PrerequisiteCourseUnit = "CourseUnit"

// Prerequisite references a course unit or module group.
type Prerequisite struct {
	Type              string `json:"type"`
	CourseUnitGroupID string `json:"courseUnitGroupId,omitempty"`
	ModuleGroupID     string `json:"moduleGroupId,omitempty"`
}

// validFor reports whether a version applies to the curriculum period. An
// empty period list means the version applies to every period.
func validFor(periods []string, period string) bool {
	return len(periods) == 0 || slices.Contains(periods, period)
}

func decode[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
