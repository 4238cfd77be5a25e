package grader

import (
	"fmt"

	"github.com/c360studio/apigrade/detect"
	"github.com/c360studio/apigrade/document"
	"github.com/c360studio/apigrade/grading"
	"github.com/c360studio/apigrade/priority"
	"github.com/c360studio/apigrade/profile"
	"github.com/c360studio/apigrade/scoring"
)

// Executor runs the full grading pipeline for one request: parse the
// document, evaluate the rule battery, detect the archetype, resolve the
// grading profile, derive priorities, and compute the adaptive score.
type Executor struct {
	catalog        *profile.Catalog
	evaluator      *grading.Evaluator
	detector       *detect.Detector
	engine         *scoring.Engine
	defaultProfile string
}

// NewExecutor creates an Executor over the given profile catalog.
// defaultProfile may be empty; then the detected archetype picks the
// profile. Evaluator options (such as the negation scope) pass through.
func NewExecutor(catalog *profile.Catalog, defaultProfile string, opts ...grading.Option) *Executor {
	return &Executor{
		catalog:        catalog,
		evaluator:      grading.NewEvaluator(opts...),
		detector:       detect.NewDetector(),
		engine:         scoring.NewEngine(),
		defaultProfile: defaultProfile,
	}
}

// Execute grades the request's document and returns the complete result.
// Grading itself never fails on document content; the only errors are an
// unparseable document or an unknown pinned profile.
func (e *Executor) Execute(req *GradeRequest) (*GradeResult, error) {
	doc, err := document.FromYAML(req.Spec)
	if err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}

	evaluation := e.evaluator.Evaluate(doc)
	detection := e.detector.Detect(doc)

	prof, err := e.resolveProfile(req.ProfileID, detection)
	if err != nil {
		return nil, err
	}

	var priorityCtx priority.Context
	if req.PriorityContext != nil {
		priorityCtx = *req.PriorityContext
	}
	matrix := priority.Calculate(prof, priorityCtx)

	ruleResults := ruleResultsFor(prof, evaluation)
	adaptive := e.engine.Calculate(ruleResults, prof, detection, req.BusinessContext)

	score, bonuses := scoring.ApplyExcellenceBonuses(adaptive.AdjustedScore, doc)
	adaptive.Adjustments = append(adaptive.Adjustments, bonuses...)
	adaptive.AdjustedScore = score

	return &GradeResult{
		RequestID:       req.RequestID,
		APIID:           evaluation.APIID,
		ProfileID:       prof.ID,
		Score:           score,
		Passed:          evaluation.Passed(),
		Findings:        evaluation.Findings,
		AutoFailReasons: evaluation.AutoFailReasons,
		Detection:       detection,
		Matrix:          matrix,
		AdaptiveScore:   adaptive,
	}, nil
}

// resolveProfile picks the grading profile: an explicit request override
// wins, then the component default, then the detected archetype's seed.
func (e *Executor) resolveProfile(requested string, detection *detect.Result) (*profile.GradingProfile, error) {
	id := requested
	if id == "" {
		id = e.defaultProfile
	}
	if id != "" {
		prof, err := e.catalog.Get(id)
		if err != nil {
			return nil, fmt.Errorf("resolve profile %s: %w", id, err)
		}
		return prof, nil
	}
	return e.catalog.ForType(profile.Type(detection.DetectedProfile)), nil
}

// ruleResultsFor converts evaluator findings into per-rule score fractions
// against the profile's declared weights. An error finding zeroes the rule,
// a warning halves it, info and absence leave it at full marks. Rules the
// evaluator never touched still participate at full weight so the adaptive
// engine sees the profile's whole rule surface.
func ruleResultsFor(prof *profile.GradingProfile, evaluation *grading.Result) map[string]scoring.RuleResult {
	results := make(map[string]scoring.RuleResult, len(prof.Rules))
	for _, rule := range prof.Rules {
		if rule.Category == profile.RuleDisabled {
			continue
		}
		results[rule.RuleID] = scoring.RuleResult{
			Score:    rule.Weight,
			MaxScore: rule.Weight,
		}
	}

	for _, finding := range evaluation.Findings {
		rr, ok := results[finding.RuleID]
		if !ok {
			continue
		}
		switch finding.Severity {
		case grading.SeverityError:
			rr.Score = 0
		case grading.SeverityWarn:
			if half := rr.MaxScore / 2; half < rr.Score {
				rr.Score = half
			}
		}
		results[finding.RuleID] = rr
	}

	return results
}
