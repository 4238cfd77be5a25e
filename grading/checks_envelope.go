package grading

import (
	"strconv"
	"strings"

	"github.com/c360studio/apigrade/document"
)

// jobSchemaMarkers exempt job-status schemas from the envelope requirement;
// their shape is dictated by the async polling contract instead.
var jobSchemaMarkers = []string{"job", "status", "operation"}

// checkEnvelope requires non-async 2xx JSON responses to resolve to a schema
// exposing both the success and data envelope properties.
func (e *Evaluator) checkEnvelope(r *evalRun) {
	violations := 0

	r.forEachOperation(func(path string, pathItem *document.Node, method string, op *document.Node) {
		if pathIsJobLike(path) {
			return
		}
		responses := op.At("responses")
		for _, code := range responses.Keys() {
			status, err := strconv.Atoi(code)
			if err != nil || status < 200 || status > 299 || status == 202 || status == 204 {
				continue
			}
			resp := document.Deref(r.doc, responses.At(code))
			schemaNode := resp.At("content", "application/json", "schema")
			if schemaNode.IsNull() {
				continue
			}
			if ref, ok := schemaNode.At("$ref").Str(); ok && schemaNameIsJobLike(ref) {
				continue
			}
			schema := document.Deref(r.doc, schemaNode)
			if !hasEnvelopeProperties(schema) {
				violations++
				r.finding("ENV-SHAPE", SeverityError, CategoryArchitecture,
					opPath(path, method)+".responses."+code+".content.application/json.schema",
					"Response %s on %s %s must use the success/data envelope",
					code, strings.ToUpper(method), path)
			}
		}
	})

	if violations == 0 {
		r.award(CategoryArchitecture, 5)
	}
}

// hasEnvelopeProperties reports whether a schema declares both envelope keys.
func hasEnvelopeProperties(schema *document.Node) bool {
	props := schema.At("properties")
	_, hasSuccess := props.Field("success")
	_, hasData := props.Field("data")
	return hasSuccess && hasData
}

// schemaNameIsJobLike recognizes async/job schemas by reference name.
func schemaNameIsJobLike(ref string) bool {
	lower := strings.ToLower(ref)
	for _, marker := range jobSchemaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// pathIsJobLike recognizes job-status resources by path segment.
func pathIsJobLike(path string) bool {
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		switch strings.ToLower(seg) {
		case "jobs", "operations", "status":
			return true
		}
	}
	return false
}
