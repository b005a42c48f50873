package rules

import (
	"sort"

	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// Registry is the immutable rule table. Construct via New, which validates
// the table once; a defective table is a configuration defect and must
// abort startup, never surface to an applicant.
type Registry struct {
	rules map[domain.LicenseCategory]CategoryRule
}

// New validates and indexes a rule table.
//
// Errors: CodeConfiguration when the table has duplicates, dangling
// references, unpopulated mandatory fields, a missing learner mapping, or a
// cyclic supersession/prerequisite graph.
func New(table []CategoryRule) (*Registry, error) {
	rules := make(map[domain.LicenseCategory]CategoryRule, len(table))
	for _, rule := range table {
		if !rule.Category.IsValid() {
			return nil, configErr("rule references unknown category " + rule.Category.String())
		}
		if _, dup := rules[rule.Category]; dup {
			return nil, configErr("duplicate rule for category " + rule.Category.String())
		}
		rules[rule.Category] = rule
	}

	r := &Registry{rules: rules}
	for _, rule := range rules {
		if err := r.validateRule(rule); err != nil {
			return nil, err
		}
	}
	if err := r.checkAcyclic("supersession", func(c CategoryRule) []domain.LicenseCategory {
		return c.SupersededCategories
	}); err != nil {
		return nil, err
	}
	if err := r.checkAcyclic("prerequisite", func(c CategoryRule) []domain.LicenseCategory {
		return c.PrerequisiteCategories
	}); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) validateRule(rule CategoryRule) error {
	cat := rule.Category.String()
	if rule.MinimumAge <= 0 {
		return configErr("category " + cat + " has no minimum age")
	}
	if rule.Family == "" {
		return configErr("category " + cat + " has no family")
	}
	for _, p := range rule.PrerequisiteCategories {
		if _, ok := r.rules[p]; !ok {
			return configErr("category " + cat + " requires unregistered prerequisite " + p.String())
		}
	}
	for _, s := range rule.SupersededCategories {
		if _, ok := r.rules[s]; !ok {
			return configErr("category " + cat + " supersedes unregistered category " + s.String())
		}
	}
	if rule.RequiresLearnerPermit {
		if rule.LearnerClass == "" {
			return configErr("category " + cat + " requires a learner permit but maps to no learner class")
		}
		learner, ok := r.rules[rule.LearnerClass]
		if !ok {
			return configErr("category " + cat + " maps to unregistered learner class " + rule.LearnerClass.String())
		}
		if !learner.AllowsLearnerPermit {
			return configErr("category " + cat + " maps to " + rule.LearnerClass.String() + " which is not obtainable as a learner permit")
		}
	}
	if rule.RequiresCategory != "" {
		if _, ok := r.rules[rule.RequiresCategory]; !ok {
			return configErr("category " + cat + " co-requires unregistered category " + rule.RequiresCategory.String())
		}
	}
	return nil
}

// checkAcyclic rejects cycles in an edge relation using three-color DFS.
func (r *Registry) checkAcyclic(label string, edges func(CategoryRule) []domain.LicenseCategory) error {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[domain.LicenseCategory]int, len(r.rules))

	var visit func(c domain.LicenseCategory) bool
	visit = func(c domain.LicenseCategory) bool {
		color[c] = grey
		for _, next := range edges(r.rules[c]) {
			switch color[next] {
			case grey:
				return false
			case white:
				if !visit(next) {
					return false
				}
			}
		}
		color[c] = black
		return true
	}

	for c := range r.rules {
		if color[c] == white && !visit(c) {
			return configErr("cyclic " + label + " graph involving category " + c.String())
		}
	}
	return nil
}

// Rule returns the rule for a category. An unknown category is a
// configuration defect, not user input error.
func (r *Registry) Rule(category domain.LicenseCategory) (CategoryRule, error) {
	rule, ok := r.rules[category]
	if !ok {
		return CategoryRule{}, configErr("unknown category " + category.String())
	}
	return rule, nil
}

// AuthorizedCategories returns the reflexive-transitive closure of the
// supersession relation starting at category: the category itself plus
// everything it authorizes, in stable order. Termination is guaranteed by
// the load-time acyclicity check.
func (r *Registry) AuthorizedCategories(category domain.LicenseCategory) ([]domain.LicenseCategory, error) {
	if _, ok := r.rules[category]; !ok {
		return nil, configErr("unknown category " + category.String())
	}
	seen := map[domain.LicenseCategory]bool{}
	var walk func(c domain.LicenseCategory)
	walk = func(c domain.LicenseCategory) {
		if seen[c] {
			return
		}
		seen[c] = true
		for _, s := range r.rules[c].SupersededCategories {
			walk(s)
		}
	}
	walk(category)

	out := make([]domain.LicenseCategory, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// SupersededCategories is the authorized closure minus the category itself.
func (r *Registry) SupersededCategories(category domain.LicenseCategory) ([]domain.LicenseCategory, error) {
	closure, err := r.AuthorizedCategories(category)
	if err != nil {
		return nil, err
	}
	out := closure[:0]
	for _, c := range closure {
		if c != category {
			out = append(out, c)
		}
	}
	return out, nil
}

// LearnerClassFor resolves the learner class an applicant must hold before
// the given category. Returns ok=false when the category needs no learner
// stage. A category that demands one without a mapping never survives New.
func (r *Registry) LearnerClassFor(category domain.LicenseCategory) (domain.LicenseCategory, bool, error) {
	rule, err := r.Rule(category)
	if err != nil {
		return "", false, err
	}
	if !rule.RequiresLearnerPermit {
		return "", false, nil
	}
	if rule.LearnerClass == "" {
		return "", false, configErr("category " + category.String() + " has no learner class mapping")
	}
	return rule.LearnerClass, true, nil
}

// IsCommercial projects the commercial flag.
func (r *Registry) IsCommercial(category domain.LicenseCategory) (bool, error) {
	rule, err := r.Rule(category)
	return rule.IsCommercial, err
}

// RequiresMedicalAlways projects the unconditional medical mandate.
func (r *Registry) RequiresMedicalAlways(category domain.LicenseCategory) (bool, error) {
	rule, err := r.Rule(category)
	return rule.MedicalAlways, err
}

// RequiresMedicalOver60 projects the age-conditional medical mandate.
func (r *Registry) RequiresMedicalOver60(category domain.LicenseCategory) (bool, error) {
	rule, err := r.Rule(category)
	return rule.MedicalOver60, err
}

// CategoryFamily projects the grouping tag.
func (r *Registry) CategoryFamily(category domain.LicenseCategory) (Family, error) {
	rule, err := r.Rule(category)
	return rule.Family, err
}

func configErr(msg string) error {
	return dErrors.New(dErrors.CodeConfiguration, msg)
}
