package grading

import (
	"strconv"
	"strings"

	"github.com/c360studio/apigrade/document"
)

// rateLimitHeaders is the throttling trio rewarded on responses.
var rateLimitHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}

// checkComponentReuse rewards reusable schema and parameter components.
// A contract with no shared components duplicates shapes inline and drifts.
func (e *Evaluator) checkComponentReuse(r *evalRun) {
	schemas := r.doc.At("components", "schemas")
	params := r.doc.At("components", "parameters")

	if schemas.Len() >= 3 {
		r.award(CategoryArchitecture, 2)
	} else {
		r.finding("REUSE-COMPONENTS", SeverityInfo, CategoryArchitecture, "components.schemas",
			"Fewer than 3 reusable schemas defined; prefer shared components over inline shapes")
	}
	if params.Len() >= 1 {
		r.award(CategoryArchitecture, 1)
	}
}

// checkRateLimitHeaders rewards documenting the full rate-limit header trio
// on at least one response.
func (e *Evaluator) checkRateLimitHeaders(r *evalRun) {
	found := false
	r.forEachOperation(func(path string, pathItem *document.Node, method string, op *document.Node) {
		responses := op.At("responses")
		for _, code := range responses.Keys() {
			resp := document.Deref(r.doc, responses.At(code))
			if hasAllHeaders(resp, rateLimitHeaders) {
				found = true
			}
		}
	})

	if found {
		r.award(CategoryDocumentation, 3)
	} else {
		r.finding("RATE-HEADERS", SeverityWarn, CategoryDocumentation, "paths",
			"No response documents the %s headers", strings.Join(rateLimitHeaders, ", "))
	}
}

// checkBonuses awards small fixed bonuses for documentation habits the guide
// encourages but does not require. Bonuses can push the documentation
// category to its budget but never beyond it.
func (e *Evaluator) checkBonuses(r *evalRun) {
	if hasComprehensiveErrorCatalog(r) {
		r.award(CategoryDocumentation, 2)
	}
	if r.doc.At("components", "headers").Len() > 0 {
		r.award(CategoryDocumentation, 1)
	}
	if docs := r.doc.At("info", "x-platform-docs"); !docs.IsNull() {
		if text, ok := docs.Str(); ok && len(NormalizeDescription(text)) >= 40 {
			r.award(CategoryDocumentation, 1)
		}
	}

	// Observation only: a missing top-level description costs nothing but
	// is worth surfacing.
	if desc, ok := r.doc.At("info", "description").Str(); !ok || len(NormalizeDescription(desc)) < 40 {
		r.finding("DOC-INFO-DESC", SeverityInfo, CategoryDocumentation, "info.description",
			"info.description is missing or too short to orient a new consumer")
	}
}

// hasComprehensiveErrorCatalog reports whether any operation documents four
// or more distinct error status codes.
func hasComprehensiveErrorCatalog(r *evalRun) bool {
	found := false
	r.forEachOperation(func(path string, pathItem *document.Node, method string, op *document.Node) {
		count := 0
		for _, code := range op.At("responses").Keys() {
			if status, err := strconv.Atoi(code); err == nil && status >= 400 && status <= 599 {
				count++
			}
		}
		if count >= 4 {
			found = true
		}
	})
	return found
}

// hasAllHeaders reports whether a response documents every named header.
func hasAllHeaders(resp *document.Node, names []string) bool {
	for _, name := range names {
		if !hasResponseHeader(resp, name) {
			return false
		}
	}
	return true
}
