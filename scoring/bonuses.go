package scoring

import (
	"strings"

	"github.com/c360studio/apigrade/document"
)

var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// ApplyExcellenceBonuses adds small fixed bonuses for practices that go
// beyond the rule battery: declaring more than one kind of security scheme
// and documenting 4xx behavior on every path. The returned score is
// clamped to 100.
func ApplyExcellenceBonuses(score float64, doc *document.Node) (float64, []Adjustment) {
	var bonuses []Adjustment

	if countSecuritySchemeTypes(doc) >= 2 {
		score += 2
		bonuses = append(bonuses, Adjustment{
			Type: "bonus", Factor: 2,
			Reason: "multiple authentication scheme types declared",
		})
	}

	if allPathsDocumentClientErrors(doc) {
		score += 3
		bonuses = append(bonuses, Adjustment{
			Type: "bonus", Factor: 3,
			Reason: "every path documents 4xx client error responses",
		})
	}

	return clampScore(score), bonuses
}

// countSecuritySchemeTypes counts the distinct scheme types under
// components.securitySchemes.
func countSecuritySchemeTypes(doc *document.Node) int {
	schemes := doc.At("components", "securitySchemes")
	seen := map[string]bool{}
	for _, name := range schemes.Keys() {
		if t := schemes.At(name, "type").StrOr(""); t != "" {
			seen[strings.ToLower(t)] = true
		}
	}
	return len(seen)
}

// allPathsDocumentClientErrors reports whether every path has at least one
// operation response in the 4xx range. An empty paths object does not earn
// the bonus.
func allPathsDocumentClientErrors(doc *document.Node) bool {
	paths := doc.At("paths")
	keys := paths.Keys()
	if len(keys) == 0 {
		return false
	}
	for _, path := range keys {
		item := paths.At(path)
		covered := false
		for _, method := range httpMethods {
			responses := item.At(method, "responses")
			for _, code := range responses.Keys() {
				if strings.HasPrefix(code, "4") {
					covered = true
					break
				}
			}
			if covered {
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
