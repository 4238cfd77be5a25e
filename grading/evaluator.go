package grading

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/c360studio/apigrade/document"
)

// Style-guide constants.
const (
	// RequiredOpenAPIPrefix is the OpenAPI release family the guide mandates.
	RequiredOpenAPIPrefix = "3.1"
	// RequiredPathPrefix is the mandatory leading segment for every path key.
	RequiredPathPrefix = "/api/v2"
	// HeaderOrganization is the organization tenant header.
	HeaderOrganization = "X-Organization-Id"
	// HeaderBranch is the branch tenant header.
	HeaderBranch = "X-Branch-Id"
)

// httpMethods lists the operation keys recognized inside a path item.
var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Evaluator runs the style-guide check battery over a document tree.
// The zero value is not usable; construct with NewEvaluator.
type Evaluator struct {
	negationScope NegationScope
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithNegationScope selects how negation mentions suppress forbidden
// technology matches. Default is NegationScopeGlobal, matching the historic
// behavior where a negative mention anywhere in the technical sections
// suppresses the technology document-wide.
func WithNegationScope(scope NegationScope) Option {
	return func(e *Evaluator) { e.negationScope = scope }
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{negationScope: NegationScopeGlobal}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs every check against the document and returns a complete
// Result. The input tree is never mutated. Evaluate is total: any well-typed
// tree, including an empty one, produces a well-formed result.
func (e *Evaluator) Evaluate(doc *document.Node) *Result {
	run := &evalRun{
		doc: doc,
		result: &Result{
			Findings:        []Finding{},
			CategoryPoints:  map[string]float64{},
			AutoFailReasons: []string{},
		},
	}

	e.checkVersion(run)
	e.checkSemver(run)
	e.checkContact(run)
	e.checkTenancyHeaders(run)
	e.checkPagination(run)
	e.checkErrorResponses(run)
	e.checkAsyncPattern(run)
	e.checkEnvelope(run)
	e.checkPathNaming(run)
	e.checkForbiddenTechnology(run)
	e.checkComponentReuse(run)
	e.checkRateLimitHeaders(run)
	e.checkBonuses(run)

	run.result.APIID = deriveAPIID(doc)
	run.finalize()
	return run.result
}

// evalRun accumulates state for a single evaluation.
type evalRun struct {
	doc    *document.Node
	result *Result
}

// finding appends a finding tagged with its category.
func (r *evalRun) finding(ruleID string, sev Severity, category, jsonPath, format string, args ...any) {
	r.result.Findings = append(r.result.Findings, Finding{
		RuleID:   ruleID,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		JSONPath: jsonPath,
		Category: category,
	})
}

// autoFail promotes a reason to the aggregate auto-fail list.
func (r *evalRun) autoFail(format string, args ...any) {
	r.result.AutoFailReasons = append(r.result.AutoFailReasons, fmt.Sprintf(format, args...))
}

// award adds points toward a category. Budgets are enforced in finalize.
func (r *evalRun) award(category string, points float64) {
	r.result.CategoryPoints[category] += points
}

// forEachOperation invokes fn for every operation in the document.
func (r *evalRun) forEachOperation(fn func(path string, pathItem *document.Node, method string, op *document.Node)) {
	paths := r.doc.At("paths")
	for _, path := range paths.Keys() {
		pathItem, _ := paths.Field(path)
		for _, method := range httpMethods {
			op, ok := pathItem.Field(method)
			if !ok || !op.IsObject() {
				continue
			}
			fn(path, pathItem, method, op)
		}
	}
}

// effectiveParams returns the merged parameter set for an operation.
func (r *evalRun) effectiveParams(pathItem, op *document.Node) map[document.ParamKey]*document.Node {
	return document.EffectiveParameters(r.doc, pathItem, op)
}

// finalize clamps category points to their budgets and computes the total.
// No category can go negative, and the total never exceeds 100.
func (r *evalRun) finalize() {
	total := 0.0
	for category, points := range r.result.CategoryPoints {
		budget := categoryBudgets[category]
		if points < 0 {
			points = 0
		}
		if budget > 0 && points > budget {
			points = budget
		}
		r.result.CategoryPoints[category] = points
		total += points
	}
	if total > 100 {
		total = 100
	}
	r.result.Score = total
}

// deriveAPIID returns the document fingerprint: the x-api-id extension when
// present, otherwise a truncated hash of "{title}@{version}". The identifier
// is descriptive only; prerequisite enforcement happens outside the engine.
func deriveAPIID(doc *document.Node) string {
	if id, ok := doc.At("x-api-id").Str(); ok && id != "" {
		return id
	}
	title := doc.At("info", "title").StrOr("untitled")
	version := doc.At("info", "version").StrOr("0.0.0")
	sum := sha256.Sum256([]byte(title + "@" + version))
	return hex.EncodeToString(sum[:])[:12]
}
