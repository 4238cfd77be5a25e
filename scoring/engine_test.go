package scoring

import (
	"math"
	"testing"

	"github.com/c360studio/apigrade/detect"
	"github.com/c360studio/apigrade/profile"
)

func TestDefaultDistributionsSumToOne(t *testing.T) {
	for profType, dist := range defaultDistributions {
		total := 0.0
		for _, w := range dist {
			total += w
		}
		if math.Abs(total-1.0) > 1e-9 {
			t.Errorf("%s distribution sums to %v, want 1.0", profType, total)
		}
	}
}

func TestDefaultWeightsFallback(t *testing.T) {
	weights := defaultWeights(profile.Type("SomethingElse"))
	if weights["security"] != defaultDistributions[profile.TypeCustom]["security"] {
		t.Error("unknown profile type should use the Custom distribution")
	}

	// Returned map must be a copy, not the shared table.
	weights["security"] = 0
	if defaultDistributions[profile.TypeCustom]["security"] == 0 {
		t.Error("defaultWeights mutated the shared distribution table")
	}
}

func TestNormalizeWeights(t *testing.T) {
	weights := map[string]float64{"a": 2, "b": 6}
	normalizeWeights(weights)
	if math.Abs(weights["a"]-0.25) > 1e-9 || math.Abs(weights["b"]-0.75) > 1e-9 {
		t.Errorf("normalized = %v, want {a:0.25 b:0.75}", weights)
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("normalized total = %v, want 1.0", total)
	}

	zero := map[string]float64{"a": 0, "b": 0}
	normalizeWeights(zero)
	if zero["a"] != 0 || zero["b"] != 0 {
		t.Errorf("zero-total map changed: %v", zero)
	}
}

func TestConfidenceTier(t *testing.T) {
	tests := []struct {
		confidence float64
		want       float64
	}{
		{0.95, 1.0},
		{0.9, 1.0},
		{0.85, 0.95},
		{0.7, 0.95},
		{0.6, 0.9},
		{0.5, 0.9},
		{0.3, 0.85},
		{0, 0.85},
	}
	for _, tt := range tests {
		if got, _ := confidenceTier(tt.confidence); got != tt.want {
			t.Errorf("confidenceTier(%v) = %v, want %v", tt.confidence, got, tt.want)
		}
	}
}

func restProfile() *profile.GradingProfile {
	return &profile.GradingProfile{
		ID:   "rest-default",
		Name: "REST",
		Type: profile.TypeREST,
		Rules: []profile.Rule{
			{RuleID: "SEC-ORG-HDR", Weight: 10, Category: profile.RuleRequired},
			{RuleID: "PAG-KEYSET", Weight: 8, Category: profile.RuleRequired},
			{RuleID: "DOC-CONTACT", Weight: 3, Category: profile.RuleOptional},
			{RuleID: "ERR-PROBLEM", Weight: 10, Category: profile.RuleRequired},
		},
	}
}

func perfectResults() map[string]RuleResult {
	return map[string]RuleResult{
		"SEC-ORG-HDR": {Score: 10, MaxScore: 10},
		"PAG-KEYSET":  {Score: 8, MaxScore: 8},
		"DOC-CONTACT": {Score: 3, MaxScore: 3},
		"ERR-PROBLEM": {Score: 10, MaxScore: 10},
	}
}

func TestCalculateHighConfidenceNoContext(t *testing.T) {
	engine := NewEngine()
	detection := &detect.Result{DetectedProfile: "REST", Confidence: 0.95}

	result := engine.Calculate(perfectResults(), restProfile(), detection, nil)

	if len(result.Adjustments) != 1 {
		t.Fatalf("adjustments = %d entries, want exactly 1", len(result.Adjustments))
	}
	adj := result.Adjustments[0]
	if adj.Type != "confidence" {
		t.Errorf("adjustment type = %q, want confidence", adj.Type)
	}
	if adj.Factor != 1.0 {
		t.Errorf("confidence factor = %v, want 1.0", adj.Factor)
	}
	if math.Abs(result.AdjustedScore-result.BaseScore) > 1e-9 {
		t.Errorf("adjusted %v != base %v despite factor 1.0", result.AdjustedScore, result.BaseScore)
	}

	// All rules at full marks yield a perfect base score.
	if math.Abs(result.BaseScore-100) > 1e-9 {
		t.Errorf("base score = %v, want 100 for perfect results", result.BaseScore)
	}
}

func TestCalculateWithBusinessContext(t *testing.T) {
	engine := NewEngine()
	detection := &detect.Result{DetectedProfile: "REST", Confidence: 0.95}
	ctx := &BusinessContext{Domain: "finance", Maturity: "mature"}

	result := engine.Calculate(perfectResults(), restProfile(), detection, ctx)

	if len(result.Adjustments) != 3 {
		t.Fatalf("adjustments = %d entries, want 3 (confidence, domain, maturity)", len(result.Adjustments))
	}
	wantTypes := []string{"confidence", "domain", "maturity"}
	wantFactors := []float64{1.0, 1.1, 1.05}
	for i, adj := range result.Adjustments {
		if adj.Type != wantTypes[i] {
			t.Errorf("adjustment[%d].Type = %q, want %q", i, adj.Type, wantTypes[i])
		}
		if adj.Factor != wantFactors[i] {
			t.Errorf("adjustment[%d].Factor = %v, want %v", i, adj.Factor, wantFactors[i])
		}
	}

	// 100 × 1.1 × 1.05 would exceed 100; the clamp holds.
	if result.AdjustedScore != 100 {
		t.Errorf("adjusted score = %v, want clamped 100", result.AdjustedScore)
	}
}

func TestCalculateLowConfidencePenalty(t *testing.T) {
	engine := NewEngine()
	detection := &detect.Result{DetectedProfile: "REST", Confidence: 0.6}

	result := engine.Calculate(perfectResults(), restProfile(), detection, nil)

	if result.Adjustments[0].Factor != 0.9 {
		t.Errorf("confidence factor = %v, want 0.9 for 0.6 confidence", result.Adjustments[0].Factor)
	}
	if math.Abs(result.AdjustedScore-result.BaseScore*0.9) > 1e-9 {
		t.Errorf("adjusted = %v, want base %v × 0.9", result.AdjustedScore, result.BaseScore)
	}
}

func TestCalculateScoreBounds(t *testing.T) {
	engine := NewEngine()
	detection := &detect.Result{DetectedProfile: "REST", Confidence: 0.2}

	zeros := map[string]RuleResult{
		"SEC-ORG-HDR": {Score: 0, MaxScore: 10},
		"ERR-PROBLEM": {Score: 0, MaxScore: 10},
	}
	result := engine.Calculate(zeros, restProfile(), detection, &BusinessContext{Domain: "finance", Maturity: "mature"})
	if result.AdjustedScore < 0 || result.AdjustedScore > 100 {
		t.Errorf("adjusted score %v outside [0,100]", result.AdjustedScore)
	}
	if result.BaseScore != 0 {
		t.Errorf("base score = %v, want 0 for all-zero results", result.BaseScore)
	}
}

func TestCalculateEmptyInputs(t *testing.T) {
	engine := NewEngine()
	result := engine.Calculate(nil, nil, nil, nil)
	if result.BaseScore != 0 {
		t.Errorf("base score = %v, want 0 with no rule results", result.BaseScore)
	}
	if result.AdjustedScore != 0 {
		t.Errorf("adjusted score = %v, want 0", result.AdjustedScore)
	}
	if len(result.Adjustments) != 1 || result.Adjustments[0].Type != "confidence" {
		t.Errorf("expected a single confidence adjustment, got %+v", result.Adjustments)
	}
}

func TestCalculateMaturityAlphaWeights(t *testing.T) {
	engine := NewEngine()
	detection := &detect.Result{DetectedProfile: "REST", Confidence: 0.95}

	plain := engine.Calculate(perfectResults(), restProfile(), detection, &BusinessContext{})
	alpha := engine.Calculate(perfectResults(), restProfile(), detection, &BusinessContext{Maturity: "alpha"})

	if alpha.Weights["documentation"] >= plain.Weights["documentation"] {
		t.Errorf("alpha documentation weight %v should be below baseline %v",
			alpha.Weights["documentation"], plain.Weights["documentation"])
	}

	total := 0.0
	for _, w := range alpha.Weights {
		total += w
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("alpha weights sum to %v, want 1.0 after normalization", total)
	}
}
