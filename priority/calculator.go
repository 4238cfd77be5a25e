package priority

import (
	"strings"

	"github.com/c360studio/apigrade/profile"
)

// domainSeeds is the baseline category→priority table per business domain.
// Domains not listed fall back to the general row.
var domainSeeds = map[string]map[string]Priority{
	"finance": {
		"security":      Critical,
		"compliance":    Critical,
		"audit":         High,
		"resilience":    High,
		"performance":   High,
		"consistency":   Medium,
		"documentation": Medium,
	},
	"healthcare": {
		"security":      Critical,
		"compliance":    Critical,
		"privacy":       Critical,
		"encryption":    High,
		"documentation": Medium,
		"performance":   Medium,
		"consistency":   Medium,
	},
	"government": {
		"security":      Critical,
		"compliance":    Critical,
		"audit":         High,
		"accessibility": High,
		"documentation": High,
		"consistency":   Medium,
		"performance":   Medium,
	},
	"ecommerce": {
		"performance":   High,
		"availability":  High,
		"scalability":   High,
		"security":      High,
		"resilience":    Medium,
		"consistency":   Medium,
		"documentation": Low,
	},
	"education": {
		"accessibility": High,
		"documentation": High,
		"usability":     High,
		"security":      Medium,
		"performance":   Medium,
		"consistency":   Medium,
	},
	"general": {
		"security":      High,
		"performance":   Medium,
		"documentation": Medium,
		"consistency":   Medium,
		"resilience":    Medium,
	},
}

// regulationCategories lists the categories each recognized regulation
// forces to critical.
var regulationCategories = map[string][]string{
	"PCI-DSS": {"security", "encryption", "access-control"},
	"HIPAA":   {"security", "privacy", "audit", "encryption"},
	"GDPR":    {"security", "privacy", "data-protection"},
	"SOC2":    {"security", "availability", "monitoring", "audit"},
	"FISMA":   {"security", "audit", "access-control"},
	"FedRAMP": {"security", "compliance", "monitoring"},
}

// prefixPriorities derives a floor priority from a rule-id prefix.
// Longer prefixes are checked first so PREREQ wins over PERF lookups.
var prefixPriorities = []struct {
	prefix   string
	priority Priority
}{
	{"PREREQ", Critical},
	{"SCALE", Medium},
	{"AUTH", High},
	{"FUNC", High},
	{"PERF", Medium},
	{"BEST", Low},
	{"SEC", High},
	{"DOC", Low},
}

// rulePrefixCategories maps rule-id prefixes to the scoring category each
// rule belongs to. Longest prefixes first; unlisted prefixes map to
// consistency.
var rulePrefixCategories = []struct {
	prefix   string
	category string
}{
	{"PREREQ", "security"},
	{"ASYNC", "resilience"},
	{"SCALE", "scalability"},
	{"AUTH", "security"},
	{"COMP", "compliance"},
	{"NAME", "consistency"},
	{"PATH", "consistency"},
	{"PERF", "performance"},
	{"TECH", "compliance"},
	{"DOC", "documentation"},
	{"ERR", "resilience"},
	{"PAG", "consistency"},
	{"SEC", "security"},
	{"VER", "consistency"},
}

// CategoryForRule infers the scoring category a rule belongs to from its
// rule-id prefix.
func CategoryForRule(ruleID string) string {
	upper := strings.ToUpper(ruleID)
	for _, entry := range rulePrefixCategories {
		if strings.HasPrefix(upper, entry.prefix) {
			return entry.category
		}
	}
	return "consistency"
}

// prefixPriority derives the rule-id-prefix component of a rule's priority.
func prefixPriority(ruleID string) Priority {
	upper := strings.ToUpper(ruleID)
	for _, entry := range prefixPriorities {
		if strings.HasPrefix(upper, entry.prefix) {
			return entry.priority
		}
	}
	return Medium
}

// Calculate derives the priority matrix for a profile under the given
// business context. It is a total function: any context, including the
// zero value, yields a complete matrix.
func Calculate(p *profile.GradingProfile, ctx Context) *Matrix {
	categories := seedCategories(ctx.Domain)

	forceRegulations(categories, ctx.Regulations)

	if strings.EqualFold(ctx.RiskLevel, "high") {
		escalateAll(categories, "security", "audit", "monitoring")
	}
	switch strings.ToLower(ctx.DataClassification) {
	case "restricted", "confidential":
		escalateAll(categories, "security", "encryption", "access-control")
	}
	switch strings.ToLower(ctx.UserBase) {
	case "public", "b2c":
		escalateAll(categories, "performance", "availability", "usability")
	}

	rules := make(map[string]RulePriority)
	if p != nil {
		for _, rule := range p.Rules {
			pr := prefixPriority(rule.RuleID)
			if catPr, ok := categories[CategoryForRule(rule.RuleID)]; ok {
				pr = Combine(pr, catPr)
			} else {
				pr = Combine(pr, Medium)
			}
			rules[rule.RuleID] = RulePriority{Priority: pr, Weight: Weight(pr)}
		}
	}

	return &Matrix{
		Categories:        categories,
		Rules:             rules,
		OverallMultiplier: overallMultiplier(ctx),
	}
}

func seedCategories(domain string) map[string]Priority {
	seed, ok := domainSeeds[strings.ToLower(domain)]
	if !ok {
		seed = domainSeeds["general"]
	}
	categories := make(map[string]Priority, len(seed))
	for category, pr := range seed {
		categories[category] = pr
	}
	return categories
}

func forceRegulations(categories map[string]Priority, regulations []string) {
	for _, reg := range regulations {
		for name, forced := range regulationCategories {
			if strings.EqualFold(reg, name) {
				for _, category := range forced {
					categories[category] = Critical
				}
			}
		}
	}
}

// escalateAll bumps each named category one severity step. Categories not
// yet in the map enter at high.
func escalateAll(categories map[string]Priority, names ...string) {
	for _, name := range names {
		if current, ok := categories[name]; ok {
			categories[name] = Escalate(current)
		} else {
			categories[name] = High
		}
	}
}

const maxOverallMultiplier = 1.5

func overallMultiplier(ctx Context) float64 {
	m := 1.0
	if len(ctx.Regulations) > 0 {
		m *= 1.1
	}
	if strings.EqualFold(ctx.RiskLevel, "high") {
		m *= 1.15
	}
	switch strings.ToLower(ctx.DataClassification) {
	case "restricted":
		m *= 1.2
	case "confidential":
		m *= 1.1
	}
	if strings.EqualFold(ctx.UserBase, "internal") {
		m *= 0.95
	}
	if m > maxOverallMultiplier {
		m = maxOverallMultiplier
	}
	return m
}
