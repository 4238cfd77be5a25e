// Package detect classifies an OpenAPI document against the built-in profile
// archetypes. All detection is deterministic evidence scoring over the
// document tree; no network or model calls are involved.
package detect

import (
	"math"
	"sort"

	"github.com/c360studio/apigrade/document"
)

// Signal is one piece of weighted boolean evidence for a profile candidate.
type Signal struct {
	Type     string   `json:"type"`
	Weight   float64  `json:"weight"`
	Found    bool     `json:"found"`
	Evidence []string `json:"evidence,omitempty"`
}

// ProfileScore is the evidence score for one archetype.
type ProfileScore struct {
	Profile string   `json:"profile"`
	Score   float64  `json:"score"`
	Signals []Signal `json:"signals"`
}

// Reasoning explains a detection outcome.
type Reasoning struct {
	MatchedPatterns   []string `json:"matched_patterns"`
	MissingIndicators []string `json:"missing_indicators"`
	SignalStrength    float64  `json:"signal_strength"`
}

// Result is the complete output of profile detection.
type Result struct {
	DetectedProfile string         `json:"detected_profile"`
	Confidence      float64        `json:"confidence"`
	Reasoning       Reasoning      `json:"reasoning"`
	Alternatives    []ProfileScore `json:"alternatives"`
}

// significantWeight is the threshold above which an unfound signal is worth
// surfacing as a missing indicator.
const significantWeight = 20

// Detector scores a document against every archetype and picks a winner.
type Detector struct {
	archetypes []archetype
}

// NewDetector constructs a Detector with the built-in archetypes.
func NewDetector() *Detector {
	return &Detector{archetypes: builtinArchetypes()}
}

// Detect classifies the document. It is total: any tree, including an empty
// one, produces a result (an empty document detects as REST with minimal
// confidence).
func (d *Detector) Detect(doc *document.Node) *Result {
	scores := make([]ProfileScore, 0, len(d.archetypes))
	for _, arch := range d.archetypes {
		scores = append(scores, arch.score(doc))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	top := scores[0]
	confidence := confidenceFor(scores)

	reasoning := Reasoning{
		MatchedPatterns:   []string{},
		MissingIndicators: []string{},
		SignalStrength:    top.Score,
	}
	for _, sig := range top.Signals {
		if sig.Found {
			reasoning.MatchedPatterns = append(reasoning.MatchedPatterns, sig.Evidence...)
		} else if sig.Weight > significantWeight {
			reasoning.MissingIndicators = append(reasoning.MissingIndicators, sig.Type)
		}
	}

	alternatives := make([]ProfileScore, 0, 2)
	for _, alt := range scores[1:] {
		if len(alternatives) == 2 {
			break
		}
		alternatives = append(alternatives, alt)
	}

	return &Result{
		DetectedProfile: top.Profile,
		Confidence:      confidence,
		Reasoning:       reasoning,
		Alternatives:    alternatives,
	}
}

// confidenceFor derives the 0-1 confidence from the ranked scores. The base
// is the top score; a decisive gap to the runner-up scales it up, a narrow
// gap scales it down.
func confidenceFor(ranked []ProfileScore) float64 {
	confidence := ranked[0].Score / 100
	if len(ranked) > 1 {
		gap := ranked[0].Score - ranked[1].Score
		switch {
		case gap > 30:
			confidence = math.Min(confidence*1.2, 0.95)
		case gap < 10:
			confidence = math.Max(confidence*0.85, 0.5)
		}
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return math.Round(confidence*100) / 100
}
