// Package profile provides the registry of named grading profiles: rule
// subsets, prerequisite flags, and category priority defaults for each
// recognized API archetype. Profile definitions are pure data; the catalog is
// a thin interpreter over a Store plus an in-memory cache.
package profile

import "fmt"

// Type names the API archetype a profile grades.
type Type string

const (
	TypeREST         Type = "REST"
	TypeGraphQL      Type = "GraphQL"
	TypeSaaS         Type = "SaaS"
	TypeMicroservice Type = "Microservice"
	TypeGRPC         Type = "gRPC"
	TypeCustom       Type = "Custom"
)

// RuleCategory classifies how a rule participates in a profile.
type RuleCategory string

const (
	// RuleRequired rules count toward the score and can auto-fail.
	RuleRequired RuleCategory = "required"
	// RuleOptional rules count toward the score but never auto-fail.
	RuleOptional RuleCategory = "optional"
	// RuleDisabled rules are skipped entirely for this profile.
	RuleDisabled RuleCategory = "disabled"
)

// Rule binds a style-guide rule into a profile with its weight.
// Rules are unique by RuleID within a profile; weights are positive with no
// required sum.
type Rule struct {
	RuleID           string       `json:"rule_id" yaml:"rule_id"`
	Weight           float64      `json:"weight" yaml:"weight"`
	Category         RuleCategory `json:"category" yaml:"category"`
	SeverityOverride string       `json:"severity_override,omitempty" yaml:"severity_override,omitempty"`
	OverrideMessage  string       `json:"override_message,omitempty" yaml:"override_message,omitempty"`
}

// Prerequisites are the gate conditions a document must satisfy before a
// profile's grade is considered meaningful. Checking them is the caller's
// concern; the catalog only declares them.
type Prerequisites struct {
	RequireMultiTenantHeaders bool     `json:"require_multi_tenant_headers" yaml:"require_multi_tenant_headers"`
	RequireAuth               bool     `json:"require_auth" yaml:"require_auth"`
	RequireAPIID              bool     `json:"require_api_id" yaml:"require_api_id"`
	Custom                    []string `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Prerequisite rule identifiers the flags translate to.
const (
	PrereqTenantHeaders = "PREREQ-TENANT-HEADERS"
	PrereqAuth          = "PREREQ-AUTH"
	PrereqAPIID         = "PREREQ-API-ID"
)

// GradingProfile is one named grading configuration.
type GradingProfile struct {
	ID             string             `json:"id" yaml:"id"`
	Name           string             `json:"name" yaml:"name"`
	Type           Type               `json:"type" yaml:"type"`
	Rules          []Rule             `json:"rules" yaml:"rules"`
	Prerequisites  Prerequisites      `json:"prerequisites" yaml:"prerequisites"`
	PriorityConfig map[string]float64 `json:"priority_config" yaml:"priority_config"`
}

// RuleByID returns the profile's binding for a rule, if present.
func (p *GradingProfile) RuleByID(ruleID string) (Rule, bool) {
	for _, r := range p.Rules {
		if r.RuleID == ruleID {
			return r, true
		}
	}
	return Rule{}, false
}

// PrerequisiteRules translates the prerequisite flags into the concrete
// rule identifiers a caller must evaluate separately.
func (p *GradingProfile) PrerequisiteRules() []string {
	var rules []string
	if p.Prerequisites.RequireMultiTenantHeaders {
		rules = append(rules, PrereqTenantHeaders)
	}
	if p.Prerequisites.RequireAuth {
		rules = append(rules, PrereqAuth)
	}
	if p.Prerequisites.RequireAPIID {
		rules = append(rules, PrereqAPIID)
	}
	rules = append(rules, p.Prerequisites.Custom...)
	return rules
}

// ShouldEnforce reports whether a prerequisite rule identifier is active for
// the profile.
func (p *GradingProfile) ShouldEnforce(prereqRuleID string) bool {
	for _, id := range p.PrerequisiteRules() {
		if id == prereqRuleID {
			return true
		}
	}
	return false
}

// Validate checks structural profile invariants.
func (p *GradingProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	seen := map[string]bool{}
	for _, r := range p.Rules {
		if r.RuleID == "" {
			return fmt.Errorf("profile %s: rule with empty rule_id", p.ID)
		}
		if seen[r.RuleID] {
			return fmt.Errorf("profile %s: duplicate rule %s", p.ID, r.RuleID)
		}
		seen[r.RuleID] = true
		if r.Weight <= 0 {
			return fmt.Errorf("profile %s: rule %s weight must be positive", p.ID, r.RuleID)
		}
		switch r.Category {
		case RuleRequired, RuleOptional, RuleDisabled:
		default:
			return fmt.Errorf("profile %s: rule %s has unknown category %q", p.ID, r.RuleID, r.Category)
		}
	}
	return nil
}

// Store is the persistence contract the catalog sits over. Implementations
// live elsewhere (in-memory for tests and CLI runs, NATS KV for the service).
type Store interface {
	ListProfiles() ([]*GradingProfile, error)
	GetProfile(id string) (*GradingProfile, error)
	GetProfileRules(id string) ([]Rule, error)
	CreateProfile(p *GradingProfile) error
	SetProfileRules(id string, rules []Rule) error
}
