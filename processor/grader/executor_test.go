package grader

import (
	"testing"

	"github.com/c360studio/apigrade/grading"
	"github.com/c360studio/apigrade/profile"
	"github.com/c360studio/apigrade/scoring"
)

const testSpec = `
openapi: "3.0.2"
info:
  title: Legacy Orders API
  version: 1.2.3
  contact:
    email: api-team@example.com
paths:
  /api/v2/orders:
    get:
      parameters:
        - name: offset
          in: query
          schema:
            type: integer
      responses:
        "200":
          description: OK
`

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	catalog, err := profile.NewCatalog(profile.NewMemoryStore())
	if err != nil {
		t.Fatalf("create catalog: %v", err)
	}
	return NewExecutor(catalog, "")
}

func TestExecutorExecute(t *testing.T) {
	executor := newTestExecutor(t)

	result, err := executor.Execute(&GradeRequest{
		RequestID: "req-1",
		Spec:      []byte(testSpec),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if result.RequestID != "req-1" {
		t.Errorf("request id = %q, want req-1", result.RequestID)
	}
	if result.APIID == "" {
		t.Error("expected a derived api id")
	}
	if result.Detection == nil || result.Detection.DetectedProfile == "" {
		t.Error("expected a detection outcome")
	}
	if result.Matrix == nil {
		t.Error("expected a priority matrix")
	}
	if result.AdaptiveScore == nil {
		t.Fatal("expected an adaptive score")
	}
	if result.Score < 0 || result.Score > 100 {
		t.Errorf("score %v outside [0,100]", result.Score)
	}
	if result.ProfileID == "" {
		t.Error("expected the detected archetype's profile to be resolved")
	}

	// 3.0.2 violates the required version family, so the run auto-fails.
	if result.Passed {
		t.Error("expected a failed run for a 3.0.2 document")
	}
	if len(result.AutoFailReasons) == 0 {
		t.Error("expected auto-fail reasons")
	}
}

func TestExecutorProfileOverride(t *testing.T) {
	executor := newTestExecutor(t)

	result, err := executor.Execute(&GradeRequest{
		RequestID: "req-2",
		Spec:      []byte(testSpec),
		ProfileID: profile.SeedSaaS,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.ProfileID != profile.SeedSaaS {
		t.Errorf("profile id = %q, want %q", result.ProfileID, profile.SeedSaaS)
	}
}

func TestExecutorUnknownProfile(t *testing.T) {
	executor := newTestExecutor(t)

	_, err := executor.Execute(&GradeRequest{
		RequestID: "req-3",
		Spec:      []byte(testSpec),
		ProfileID: "no-such-profile",
	})
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestExecutorBadSpec(t *testing.T) {
	executor := newTestExecutor(t)

	_, err := executor.Execute(&GradeRequest{
		RequestID: "req-4",
		Spec:      []byte("openapi: [unclosed"),
	})
	if err == nil {
		t.Fatal("expected error for unparseable spec")
	}
}

func TestRuleResultsFor(t *testing.T) {
	prof := &profile.GradingProfile{
		ID:   "test",
		Type: profile.TypeREST,
		Rules: []profile.Rule{
			{RuleID: "SEC-ORG-HDR", Weight: 10, Category: profile.RuleRequired},
			{RuleID: "DOC-CONTACT", Weight: 4, Category: profile.RuleOptional},
			{RuleID: "PAG-KEYSET", Weight: 8, Category: profile.RuleRequired},
			{RuleID: "OLD-RULE", Weight: 5, Category: profile.RuleDisabled},
		},
	}
	evaluation := &grading.Result{
		Findings: []grading.Finding{
			{RuleID: "SEC-ORG-HDR", Severity: grading.SeverityError},
			{RuleID: "DOC-CONTACT", Severity: grading.SeverityWarn},
			{RuleID: "UNRELATED", Severity: grading.SeverityError},
		},
	}

	results := ruleResultsFor(prof, evaluation)

	if _, ok := results["OLD-RULE"]; ok {
		t.Error("disabled rules must not participate")
	}
	if got := results["SEC-ORG-HDR"]; got != (scoring.RuleResult{Score: 0, MaxScore: 10}) {
		t.Errorf("error finding should zero the rule, got %+v", got)
	}
	if got := results["DOC-CONTACT"]; got != (scoring.RuleResult{Score: 2, MaxScore: 4}) {
		t.Errorf("warn finding should halve the rule, got %+v", got)
	}
	if got := results["PAG-KEYSET"]; got != (scoring.RuleResult{Score: 8, MaxScore: 8}) {
		t.Errorf("untouched rule keeps full marks, got %+v", got)
	}
}
