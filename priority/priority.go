// Package priority derives a category and rule priority matrix from a
// grading profile and the caller's business context. The matrix feeds the
// adaptive scoring engine: more severe priorities carry larger multipliers.
package priority

// Priority is an ordered severity level for a grading category or rule.
type Priority string

const (
	Critical Priority = "critical"
	High     Priority = "high"
	Medium   Priority = "medium"
	Low      Priority = "low"
)

// rank orders priorities so comparisons use a single total order.
var rank = map[Priority]int{
	Critical: 4,
	High:     3,
	Medium:   2,
	Low:      1,
}

// weights maps each priority level to its scoring multiplier.
var weights = map[Priority]float64{
	Critical: 2.0,
	High:     1.5,
	Medium:   1.0,
	Low:      0.5,
}

// Combine returns the more severe of two priorities. It is commutative.
func Combine(a, b Priority) Priority {
	if rank[a] >= rank[b] {
		return a
	}
	return b
}

// Escalate raises a priority by one severity step. Critical stays critical.
func Escalate(p Priority) Priority {
	switch p {
	case Low:
		return Medium
	case Medium:
		return High
	case High, Critical:
		return Critical
	default:
		return High
	}
}

// Weight returns the scoring multiplier for a priority level.
// Unknown values fall back to the medium multiplier.
func Weight(p Priority) float64 {
	if w, ok := weights[p]; ok {
		return w
	}
	return weights[Medium]
}

// Valid reports whether p is one of the four defined levels.
func Valid(p Priority) bool {
	_, ok := rank[p]
	return ok
}
