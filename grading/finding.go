// Package grading evaluates an OpenAPI document tree against the
// organization's API style guide. Evaluation is a fixed, ordered battery of
// structural and semantic checks; each check either awards points toward its
// category budget or records findings, and a subset of failures additionally
// promote an auto-fail reason. Nothing in this package panics or returns an
// error for malformed documents: structural absence grades as "not present".
package grading

// Severity classifies a finding.
type Severity string

const (
	// SeverityError marks a style-guide violation.
	SeverityError Severity = "error"
	// SeverityWarn marks a recommendation the guide does not hard-require.
	SeverityWarn Severity = "warn"
	// SeverityInfo marks an observation with no score impact.
	SeverityInfo Severity = "info"
)

// Grading categories. Their point budgets sum to 100.
const (
	CategorySecurity      = "security"
	CategoryPagination    = "pagination"
	CategoryErrors        = "errors"
	CategoryNaming        = "naming"
	CategoryDocumentation = "documentation"
	CategoryArchitecture  = "architecture"
)

// categoryBudgets caps the points any category can contribute.
var categoryBudgets = map[string]float64{
	CategorySecurity:      25,
	CategoryPagination:    15,
	CategoryErrors:        20,
	CategoryNaming:        15,
	CategoryDocumentation: 12,
	CategoryArchitecture:  13,
}

// Finding is one recorded check outcome. Findings are produced, never
// mutated, and accumulate in evaluation order.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	JSONPath string   `json:"json_path"`
	Category string   `json:"category,omitempty"`
	Line     int      `json:"line,omitempty"`
}

// Result is the complete output of one evaluation run.
type Result struct {
	// Findings in evaluation order.
	Findings []Finding `json:"findings"`

	// CategoryPoints holds earned points per category, each clamped to
	// the category budget.
	CategoryPoints map[string]float64 `json:"category_points"`

	// Score is the clamped 0-100 sum of category points.
	Score float64 `json:"score"`

	// AutoFailReasons lists violations severe enough to fail the run
	// regardless of the numeric score.
	AutoFailReasons []string `json:"auto_fail_reasons"`

	// APIID is the document fingerprint (x-api-id or derived hash).
	APIID string `json:"api_id"`
}

// Passed reports whether the run recorded no auto-fail reasons.
func (r *Result) Passed() bool {
	return len(r.AutoFailReasons) == 0
}

// FindingsBySeverity counts findings at the given severity.
func (r *Result) FindingsBySeverity(sev Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}
