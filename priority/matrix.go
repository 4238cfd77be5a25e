package priority

// Context carries the business attributes that shape the priority matrix.
// All fields are optional; the zero value yields the general-domain defaults.
type Context struct {
	Domain             string   `json:"domain" yaml:"domain"`
	Regulations        []string `json:"regulations,omitempty" yaml:"regulations,omitempty"`
	RiskLevel          string   `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
	UserBase           string   `json:"user_base,omitempty" yaml:"user_base,omitempty"`
	DataClassification string   `json:"data_classification,omitempty" yaml:"data_classification,omitempty"`
}

// RulePriority is the resolved priority for a single rule, with the
// multiplier the scoring engine applies to that rule's contribution.
type RulePriority struct {
	Priority Priority `json:"priority"`
	Weight   float64  `json:"weight"`
}

// Matrix is the full category and rule priority assignment for one
// grading run.
type Matrix struct {
	Categories        map[string]Priority     `json:"categories"`
	Rules             map[string]RulePriority `json:"rules"`
	OverallMultiplier float64                 `json:"overall_multiplier"`
}

// CategoryPriority returns the assigned priority for a category,
// defaulting to medium when the category is not in the matrix.
func (m *Matrix) CategoryPriority(category string) Priority {
	if p, ok := m.Categories[category]; ok {
		return p
	}
	return Medium
}

// RuleWeight returns the priority multiplier for a rule, defaulting to
// the medium multiplier for rules outside the matrix.
func (m *Matrix) RuleWeight(ruleID string) float64 {
	if rp, ok := m.Rules[ruleID]; ok {
		return rp.Weight
	}
	return Weight(Medium)
}
