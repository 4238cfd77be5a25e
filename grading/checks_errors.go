package grading

import (
	"strconv"
	"strings"

	"github.com/c360studio/apigrade/document"
)

const (
	problemContentType  = "application/problem+json"
	problemSchemaMarker = "Problem"
)

// checkErrorResponses enforces the problem-detail shape on every 4xx/5xx
// response, plus the auth and throttling headers the guide calls out.
func (e *Evaluator) checkErrorResponses(r *evalRun) {
	problemViolations := 0
	authViolations := 0
	retryViolations := 0

	r.forEachOperation(func(path string, pathItem *document.Node, method string, op *document.Node) {
		responses := op.At("responses")
		for _, code := range responses.Keys() {
			status, err := strconv.Atoi(code)
			if err != nil || status < 400 || status > 599 {
				continue
			}
			resp := document.Deref(r.doc, responses.At(code))
			where := opPath(path, method) + ".responses." + code

			if !usesProblemShape(responses.At(code), resp) {
				problemViolations++
				r.finding("ERR-PROBLEM", SeverityError, CategoryErrors, where,
					"Response %s on %s %s does not use %s or a %s schema",
					code, strings.ToUpper(method), path, problemContentType, problemSchemaMarker)
			}

			if status == 401 && !hasResponseHeader(resp, "WWW-Authenticate") {
				authViolations++
				r.finding("ERR-WWW-AUTH", SeverityError, CategoryErrors, where+".headers",
					"401 response on %s %s must document the WWW-Authenticate header",
					strings.ToUpper(method), path)
			}

			if (status == 429 || status == 503) && !hasResponseHeader(resp, "Retry-After") {
				retryViolations++
				r.finding("ERR-RETRY-AFTER", SeverityWarn, CategoryErrors, where+".headers",
					"%s response on %s %s should document the Retry-After header",
					code, strings.ToUpper(method), path)
			}
		}
	})

	if problemViolations == 0 {
		r.award(CategoryErrors, 10)
	}
	if authViolations == 0 {
		r.award(CategoryErrors, 4)
	}
	if retryViolations == 0 {
		r.award(CategoryErrors, 2)
	}
}

// checkAsyncPattern enforces the 202 accepted-response contract: Location is
// required so callers can poll the job, Retry-After is recommended.
func (e *Evaluator) checkAsyncPattern(r *evalRun) {
	locationViolations := 0
	retryViolations := 0

	r.forEachOperation(func(path string, pathItem *document.Node, method string, op *document.Node) {
		responses := op.At("responses")
		accepted, ok := responses.Field("202")
		if !ok {
			return
		}
		resp := document.Deref(r.doc, accepted)
		where := opPath(path, method) + ".responses.202.headers"

		if !hasResponseHeader(resp, "Location") {
			locationViolations++
			r.finding("ASYNC-LOCATION", SeverityError, CategoryErrors, where,
				"202 response on %s %s must document the Location header",
				strings.ToUpper(method), path)
		}
		if !hasResponseHeader(resp, "Retry-After") {
			retryViolations++
			r.finding("ASYNC-RETRY", SeverityWarn, CategoryErrors, where,
				"202 response on %s %s should document the Retry-After header",
				strings.ToUpper(method), path)
		}
	})

	if locationViolations == 0 {
		r.award(CategoryErrors, 2)
	}
	if retryViolations == 0 {
		r.award(CategoryErrors, 2)
	}
}

// usesProblemShape reports whether an error response satisfies the
// problem-detail policy: either the problem content type is present, or any
// content schema references a schema whose name carries the marker string.
// The raw (pre-deref) node is consulted too so a direct response $ref whose
// name carries the marker counts.
func usesProblemShape(raw, resp *document.Node) bool {
	if ref, ok := raw.At("$ref").Str(); ok && strings.Contains(ref, problemSchemaMarker) {
		return true
	}

	content := resp.At("content")
	for _, contentType := range content.Keys() {
		if strings.EqualFold(contentType, problemContentType) {
			return true
		}
		if ref, ok := content.At(contentType, "schema", "$ref").Str(); ok &&
			strings.Contains(ref, problemSchemaMarker) {
			return true
		}
	}
	return false
}

// hasResponseHeader reports whether a (dereferenced) response documents the
// named header, either inline or as a $ref entry. Header names compare
// case-insensitively.
func hasResponseHeader(resp *document.Node, name string) bool {
	headers := resp.At("headers")
	for _, key := range headers.Keys() {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}
