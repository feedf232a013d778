package sisutest

import "github.com/sisugv/sisugv/pkg/sisu"

// Name returns a Finnish-only localized name.
func Name(fi string) sisu.Localized { return sisu.Localized{"fi": fi} }

// Composite returns a CompositeRule over rules.
func Composite(rules ...*sisu.Rule) *sisu.Rule {
	return &sisu.Rule{Type: sisu.RuleComposite, Rules: rules}
}

// Credits wraps r in a CreditsRule.
func Credits(r *sisu.Rule) *sisu.Rule {
	return &sisu.Rule{Type: sisu.RuleCredits, Rule: r}
}

// ModuleRef references a module group.
func ModuleRef(groupID string) *sisu.Rule {
	return &sisu.Rule{Type: sisu.RuleModule, ModuleGroupID: groupID}
}

// CourseRef references a course unit group.
func CourseRef(groupID string) *sisu.Rule {
	return &sisu.Rule{Type: sisu.RuleCourseUnit, CourseUnitGroupID: groupID}
}

// Module returns a study module version valid for periods (all periods
// when none are given).
func Module(groupID, code, name string, rule *sisu.Rule, periods ...string) sisu.ModuleVersion {
	return sisu.ModuleVersion{
		ID:                  groupID + "-v1",
		GroupID:             groupID,
		Code:                code,
		Type:                "StudyModule",
		Name:                Name(name),
		CurriculumPeriodIDs: periods,
		Rule:                rule,
	}
}

// Course returns a course unit version with compulsory prerequisites,
// valid for every period.
func Course(groupID, code, name string, compulsory ...string) sisu.CourseUnitVersion {
	cu := sisu.CourseUnitVersion{
		ID:      groupID + "-v1",
		GroupID: groupID,
		Code:    code,
		Name:    Name(name),
	}
	if len(compulsory) > 0 {
		cu.CompulsoryFormalPrerequisites = []sisu.PrerequisiteGroup{Prereqs(compulsory...)}
	}
	return cu
}

// Prereqs returns a group of CourseUnit prerequisites.
func Prereqs(groupIDs ...string) sisu.PrerequisiteGroup {
	g := sisu.PrerequisiteGroup{}
	for _, id := range groupIDs {
		g.Prerequisites = append(g.Prerequisites, sisu.Prerequisite{
			Type:              sisu.PrerequisiteCourseUnit,
			CourseUnitGroupID: id,
		})
	}
	return g
}
