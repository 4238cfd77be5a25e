package scoring

import (
	"github.com/c360studio/apigrade/priority"
	"github.com/c360studio/apigrade/profile"
)

// scoringCategories is the fixed category set the engine distributes
// weight across.
var scoringCategories = []string{
	"security",
	"performance",
	"documentation",
	"consistency",
	"scalability",
	"resilience",
	"compliance",
}

// defaultDistributions holds the baseline category weights per profile
// type. Each row sums to 1.0 before any contextual adjustment.
var defaultDistributions = map[profile.Type]map[string]float64{
	profile.TypeREST: {
		"security":      0.25,
		"performance":   0.15,
		"documentation": 0.15,
		"consistency":   0.20,
		"scalability":   0.10,
		"resilience":    0.10,
		"compliance":    0.05,
	},
	profile.TypeGraphQL: {
		"security":      0.25,
		"performance":   0.20,
		"documentation": 0.15,
		"consistency":   0.15,
		"scalability":   0.10,
		"resilience":    0.10,
		"compliance":    0.05,
	},
	profile.TypeSaaS: {
		"security":      0.30,
		"performance":   0.10,
		"documentation": 0.10,
		"consistency":   0.15,
		"scalability":   0.15,
		"resilience":    0.10,
		"compliance":    0.10,
	},
	profile.TypeMicroservice: {
		"security":      0.20,
		"performance":   0.15,
		"documentation": 0.10,
		"consistency":   0.15,
		"scalability":   0.15,
		"resilience":    0.20,
		"compliance":    0.05,
	},
	profile.TypeGRPC: {
		"security":      0.20,
		"performance":   0.25,
		"documentation": 0.10,
		"consistency":   0.15,
		"scalability":   0.15,
		"resilience":    0.10,
		"compliance":    0.05,
	},
	profile.TypeCustom: {
		"security":      0.20,
		"performance":   0.15,
		"documentation": 0.15,
		"consistency":   0.15,
		"scalability":   0.15,
		"resilience":    0.10,
		"compliance":    0.10,
	},
}

// categoryPriorities is the fixed category→priority lookup used for the
// base-score multipliers.
var categoryPriorities = map[string]priority.Priority{
	"security":      priority.Critical,
	"compliance":    priority.Critical,
	"resilience":    priority.High,
	"performance":   priority.High,
	"consistency":   priority.Medium,
	"scalability":   priority.Medium,
	"documentation": priority.Low,
}

// defaultWeights returns a fresh copy of the distribution for a profile
// type, falling back to the Custom row for unknown types.
func defaultWeights(t profile.Type) map[string]float64 {
	dist, ok := defaultDistributions[t]
	if !ok {
		dist = defaultDistributions[profile.TypeCustom]
	}
	weights := make(map[string]float64, len(dist))
	for category, w := range dist {
		weights[category] = w
	}
	return weights
}

// normalizeWeights rescales weights so they sum to 1.0. A zero or negative
// total leaves the map unchanged.
func normalizeWeights(weights map[string]float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return
	}
	for category, w := range weights {
		weights[category] = w / total
	}
}
