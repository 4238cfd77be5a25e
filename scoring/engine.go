// Package scoring turns rule evaluation results, a grading profile, and a
// detection outcome into one final 0-100 score with a full audit trail of
// every multiplicative adjustment applied along the way.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/c360studio/apigrade/detect"
	"github.com/c360studio/apigrade/priority"
	"github.com/c360studio/apigrade/profile"
)

// RuleResult is one rule's raw outcome from the evaluator.
type RuleResult struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
}

// BusinessContext carries the optional attributes that shape the adaptive
// weight distribution and final adjustments.
type BusinessContext struct {
	Domain              string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Maturity            string `json:"maturity,omitempty" yaml:"maturity,omitempty"`
	PerformanceCritical bool   `json:"performance_critical,omitempty" yaml:"performance_critical,omitempty"`
}

// Adjustment records one multiplicative step applied to the base score.
type Adjustment struct {
	Type   string  `json:"type"`
	Factor float64 `json:"factor"`
	Reason string  `json:"reason"`
}

// CategoryScore is the aggregated outcome for one scoring category.
type CategoryScore struct {
	RawScore      float64 `json:"raw_score"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
	RuleCount     int     `json:"rule_count"`
}

// AdaptiveScore is the engine's complete output.
type AdaptiveScore struct {
	BaseScore     float64                  `json:"base_score"`
	AdjustedScore float64                  `json:"adjusted_score"`
	Categories    map[string]CategoryScore `json:"categories"`
	Weights       map[string]float64       `json:"weights"`
	Adjustments   []Adjustment             `json:"adjustments"`
}

// Engine computes adaptive scores. It is stateless and safe for
// concurrent use.
type Engine struct{}

// NewEngine constructs a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Calculate runs the full scoring pipeline. businessCtx may be nil; the
// confidence adjustment is always applied, domain and maturity adjustments
// only when a context is supplied.
func (e *Engine) Calculate(
	ruleResults map[string]RuleResult,
	prof *profile.GradingProfile,
	detection *detect.Result,
	businessCtx *BusinessContext,
) *AdaptiveScore {
	profType := profile.TypeCustom
	var priorityConfig map[string]float64
	ruleWeights := map[string]float64{}
	if prof != nil {
		profType = prof.Type
		priorityConfig = prof.PriorityConfig
		for _, rule := range prof.Rules {
			if rule.Category == profile.RuleDisabled {
				continue
			}
			ruleWeights[rule.RuleID] = rule.Weight
		}
	}

	weights := defaultWeights(profType)
	for category, pct := range priorityConfig {
		if w, ok := weights[category]; ok {
			weights[category] = w * pct / 100
		}
	}

	confidence := 0.0
	if detection != nil {
		confidence = detection.Confidence
	}
	if confidence < 0.9 {
		penalty := 0.8 + confidence*0.2
		for category, w := range weights {
			weights[category] = w * penalty
		}
	}

	if businessCtx != nil {
		applyBusinessWeights(weights, businessCtx)
	}

	normalizeWeights(weights)

	categories := aggregateCategories(ruleResults, ruleWeights, weights)

	base := baseScore(categories)

	result := &AdaptiveScore{
		BaseScore:  base,
		Categories: categories,
		Weights:    weights,
	}

	adjusted := base
	factor, reason := confidenceTier(confidence)
	adjusted *= factor
	result.Adjustments = append(result.Adjustments, Adjustment{
		Type: "confidence", Factor: factor, Reason: reason,
	})

	if businessCtx != nil {
		factor, reason = domainAdjustment(businessCtx.Domain)
		adjusted *= factor
		result.Adjustments = append(result.Adjustments, Adjustment{
			Type: "domain", Factor: factor, Reason: reason,
		})

		factor, reason = maturityAdjustment(businessCtx.Maturity)
		adjusted *= factor
		result.Adjustments = append(result.Adjustments, Adjustment{
			Type: "maturity", Factor: factor, Reason: reason,
		})
	}

	result.AdjustedScore = clampScore(adjusted)
	return result
}

// applyBusinessWeights applies the domain, performance-critical, and
// maturity boosts to the working weight map in place.
func applyBusinessWeights(weights map[string]float64, ctx *BusinessContext) {
	switch strings.ToLower(ctx.Domain) {
	case "finance", "healthcare":
		boost(weights, 1.2, "security", "compliance", "documentation")
	case "ecommerce", "analytics":
		boost(weights, 1.2, "performance", "scalability", "resilience")
	}

	if ctx.PerformanceCritical {
		boost(weights, 1.25, "performance")
	}

	switch strings.ToLower(ctx.Maturity) {
	case "alpha":
		boost(weights, 0.7, "documentation", "consistency")
	case "mature":
		for category, w := range weights {
			weights[category] = w * 1.1
		}
	}
}

func boost(weights map[string]float64, factor float64, categories ...string) {
	for _, category := range categories {
		if w, ok := weights[category]; ok {
			weights[category] = w * factor
		}
	}
}

// aggregateCategories folds per-rule results into per-category raw scores
// weighted by each rule's declared profile weight, then applies the
// normalized category weight.
func aggregateCategories(
	ruleResults map[string]RuleResult,
	ruleWeights map[string]float64,
	weights map[string]float64,
) map[string]CategoryScore {
	type accumulator struct {
		weighted float64
		total    float64
		count    int
	}
	acc := map[string]*accumulator{}

	for ruleID, res := range ruleResults {
		if res.MaxScore <= 0 {
			continue
		}
		w, ok := ruleWeights[ruleID]
		if !ok || w <= 0 {
			w = 1
		}
		category := priority.CategoryForRule(ruleID)
		a := acc[category]
		if a == nil {
			a = &accumulator{}
			acc[category] = a
		}
		a.weighted += (res.Score / res.MaxScore) * 100 * w
		a.total += w
		a.count++
	}

	categories := make(map[string]CategoryScore, len(acc))
	for category, a := range acc {
		raw := 0.0
		if a.total > 0 {
			raw = a.weighted / a.total
		}
		weight := weights[category]
		categories[category] = CategoryScore{
			RawScore:      raw,
			Weight:        weight,
			WeightedScore: raw * weight,
			RuleCount:     a.count,
		}
	}
	return categories
}

// baseScore is the priority-multiplied weighted average across categories.
func baseScore(categories map[string]CategoryScore) float64 {
	numerator := 0.0
	denominator := 0.0
	for category, cs := range categories {
		pr, ok := categoryPriorities[category]
		if !ok {
			pr = priority.Medium
		}
		mult := priority.Weight(pr)
		numerator += cs.WeightedScore * mult
		denominator += cs.Weight * mult
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func confidenceTier(confidence float64) (float64, string) {
	switch {
	case confidence >= 0.9:
		return 1.0, fmt.Sprintf("detection confidence %.2f, no penalty", confidence)
	case confidence >= 0.7:
		return 0.95, fmt.Sprintf("detection confidence %.2f, slight penalty", confidence)
	case confidence >= 0.5:
		return 0.9, fmt.Sprintf("detection confidence %.2f, moderate penalty", confidence)
	default:
		return 0.85, fmt.Sprintf("detection confidence %.2f, heavy penalty", confidence)
	}
}

func domainAdjustment(domain string) (float64, string) {
	switch strings.ToLower(domain) {
	case "finance", "healthcare":
		return 1.1, fmt.Sprintf("regulated domain %q raises the bar", domain)
	case "ecommerce", "analytics":
		return 1.05, fmt.Sprintf("high-traffic domain %q", domain)
	default:
		return 1.0, fmt.Sprintf("no domain adjustment for %q", domain)
	}
}

func maturityAdjustment(maturity string) (float64, string) {
	switch strings.ToLower(maturity) {
	case "alpha":
		return 0.85, "alpha maturity, reduced expectations"
	case "beta":
		return 0.92, "beta maturity, reduced expectations"
	case "mature":
		return 1.05, "mature product, raised expectations"
	default:
		return 1.0, fmt.Sprintf("no maturity adjustment for %q", maturity)
	}
}

func clampScore(score float64) float64 {
	return math.Min(100, math.Max(0, score))
}
