package grading

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/c360studio/apigrade/document"
)

// NegationScope selects how negation mentions ("no-kafka") suppress forbidden
// technology matches. The historic behavior is global suppression, which can
// let a negative mention in one section mask a true positive elsewhere; the
// proximity scope confines suppression to a character window around the match.
type NegationScope int

const (
	// NegationScopeGlobal suppresses a technology document-wide when any
	// negation mention exists.
	NegationScopeGlobal NegationScope = iota
	// NegationScopeProximity suppresses a match only when a negation
	// mention falls within proximityWindow characters of it.
	NegationScopeProximity
)

// proximityWindow is the suppression radius for NegationScopeProximity.
const proximityWindow = 80

// forbiddenTechnologies is the platform denylist. The scan is a textual
// heuristic over serialized technical sections, not a parse of actual
// infrastructure usage.
var forbiddenTechnologies = []string{"kafka", "rabbitmq", "soap", "xml-rpc", "ftp"}

// technicalSections are the document roots included in the scan. Free-text
// descriptions are stripped before serialization.
var technicalSections = []string{"servers", "paths", "components", "x-platform-constraints"}

var negationForms = []string{"no-%s", "not-%s", "without-%s", "instead-of-%s"}

// checkForbiddenTechnology scans the technical sections for denylisted
// technology names using several surface patterns and applies the configured
// negation-suppression policy.
func (e *Evaluator) checkForbiddenTechnology(r *evalRun) {
	blob := technicalBlob(r.doc)
	found := 0

	for _, tech := range forbiddenTechnologies {
		matches := surfacePattern(tech).FindAllStringIndex(blob, -1)
		if len(matches) == 0 {
			continue
		}

		negations := negationPattern(tech).FindAllStringIndex(blob, -1)
		if !anyUnsuppressed(matches, negations, e.negationScope) {
			continue
		}

		found++
		r.finding("TECH-FORBIDDEN", SeverityError, CategoryArchitecture, "paths",
			"Forbidden technology %q referenced in technical sections", tech)
		r.autoFail("Forbidden technology %q referenced in the contract", tech)
	}

	if found == 0 {
		r.award(CategoryArchitecture, 5)
	}
}

// anyUnsuppressed reports whether at least one match survives negation
// suppression under the given scope.
func anyUnsuppressed(matches, negations [][]int, scope NegationScope) bool {
	if len(negations) == 0 {
		return true
	}
	if scope == NegationScopeGlobal {
		// A negation anywhere suppresses every match. Matches that are
		// themselves part of a negation mention never count.
		return false
	}
	for _, m := range matches {
		if !nearAnyNegation(m, negations) {
			return true
		}
	}
	return false
}

func nearAnyNegation(match []int, negations [][]int) bool {
	for _, n := range negations {
		// Inside the negation mention itself, or within the window.
		if match[0] >= n[0]-proximityWindow && match[0] <= n[1]+proximityWindow {
			return true
		}
	}
	return false
}

// surfacePattern matches a technology name in its quoted, hyphenated, dotted,
// path-segment, or scheme-prefix surface forms.
func surfacePattern(tech string) *regexp.Regexp {
	q := regexp.QuoteMeta(tech)
	return regexp.MustCompile(
		`"` + q + `"` +
			`|-` + q + `\b|\b` + q + `-` +
			`|\.` + q + `\b|\b` + q + `\.` +
			`|/` + q + `\b` +
			`|\b` + q + `://`)
}

// negationPattern matches the recognized negative mentions of a technology.
func negationPattern(tech string) *regexp.Regexp {
	q := regexp.QuoteMeta(tech)
	forms := make([]string, 0, len(negationForms))
	for _, f := range negationForms {
		forms = append(forms, strings.ReplaceAll(f, "%s", q))
	}
	return regexp.MustCompile(strings.Join(forms, "|"))
}

// technicalBlob serializes the technical sections to a lower-cased JSON blob
// with description and summary fields removed.
func technicalBlob(doc *document.Node) string {
	var parts []string
	for _, section := range technicalSections {
		node, ok := doc.Field(section)
		if !ok {
			continue
		}
		stripped := stripFreeText(node.Interface())
		data, err := json.Marshal(stripped)
		if err != nil {
			continue
		}
		parts = append(parts, string(data))
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

// stripFreeText removes description and summary fields recursively.
func stripFreeText(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if k == "description" || k == "summary" {
				continue
			}
			out[k] = stripFreeText(item)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, stripFreeText(item))
		}
		return out
	default:
		return v
	}
}
