package grading

import (
	"strings"

	"github.com/c360studio/apigrade/document"
)

// forbiddenPaginationParams is the denylist of offset-style query parameter
// names. The guide mandates keyset pagination; offset pagination degrades
// under concurrent writes and cannot be cached per-cursor.
var forbiddenPaginationParams = map[string]bool{
	"offset":      true,
	"page":        true,
	"page_number": true,
	"page_size":   true,
	"per_page":    true,
}

// keysetParams is the cursor trio every list operation must expose.
var keysetParams = []string{"limit", "starting_after", "ending_before"}

// checkPagination enforces keyset pagination. Any denylisted query parameter
// is an error and an auto-fail per occurrence; list operations missing the
// cursor trio raise one aggregate auto-fail.
func (e *Evaluator) checkPagination(r *evalRun) {
	foundForbidden := false
	keysetViolations := 0

	r.forEachOperation(func(path string, pathItem *document.Node, method string, op *document.Node) {
		params := r.effectiveParams(pathItem, op)

		for key := range params {
			if key.In == "query" && forbiddenPaginationParams[strings.ToLower(key.Name)] {
				foundForbidden = true
				r.finding("PAG-FORBIDDEN", SeverityError, CategoryPagination,
					opPath(path, method)+".parameters",
					"Operation %s %s declares forbidden pagination parameter %q", strings.ToUpper(method), path, key.Name)
				r.autoFail("Forbidden pagination parameter %q on %s %s", key.Name, strings.ToUpper(method), path)
			}
		}

		if isListOperation(path, method) {
			missing := missingKeysetParams(params)
			if len(missing) > 0 {
				keysetViolations++
				r.finding("PAG-KEYSET", SeverityError, CategoryPagination,
					opPath(path, method)+".parameters",
					"List operation %s %s is missing keyset parameters: %s",
					strings.ToUpper(method), path, strings.Join(missing, ", "))
			}
		}
	})

	if !foundForbidden {
		r.award(CategoryPagination, 8)
	}
	if keysetViolations > 0 {
		r.autoFail("%d list operation(s) do not implement keyset pagination (limit, starting_after, ending_before)", keysetViolations)
	} else {
		r.award(CategoryPagination, 7)
	}
}

// isListOperation recognizes collection reads: GET on a path whose last
// segment is not a path parameter.
func isListOperation(path, method string) bool {
	if method != "get" {
		return false
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 {
		return false
	}
	last := segments[len(segments)-1]
	return !strings.HasPrefix(last, "{")
}

// missingKeysetParams returns the cursor parameters absent from the set.
func missingKeysetParams(params map[document.ParamKey]*document.Node) []string {
	var missing []string
	for _, want := range keysetParams {
		if _, ok := params[document.ParamKey{In: "query", Name: want}]; !ok {
			missing = append(missing, want)
		}
	}
	return missing
}
