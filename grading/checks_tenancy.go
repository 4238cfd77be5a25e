package grading

import (
	"strings"

	"github.com/c360studio/apigrade/document"
)

// checkTenancyHeaders requires every operation to carry both tenant headers,
// resolved through the effective-parameter merge so path-level and $ref
// declarations count. The point award is all-or-nothing: one missing header
// anywhere flips the aggregate flag and the category earns nothing.
func (e *Evaluator) checkTenancyHeaders(r *evalRun) {
	allOrg := true
	allBranch := true
	sawOperation := false

	r.forEachOperation(func(path string, pathItem *document.Node, method string, op *document.Node) {
		sawOperation = true
		params := r.effectiveParams(pathItem, op)

		if !hasHeaderParam(params, HeaderOrganization) {
			allOrg = false
			r.finding("SEC-ORG-HDR", SeverityError, CategorySecurity,
				opPath(path, method)+".parameters",
				"Operation %s %s does not declare the %s header", strings.ToUpper(method), path, HeaderOrganization)
		}
		if !hasHeaderParam(params, HeaderBranch) {
			allBranch = false
			r.finding("SEC-BRANCH-HDR", SeverityError, CategorySecurity,
				opPath(path, method)+".parameters",
				"Operation %s %s does not declare the %s header", strings.ToUpper(method), path, HeaderBranch)
		}
	})

	if !allOrg {
		r.autoFail("Not every operation declares the %s tenant header", HeaderOrganization)
	}
	if !allBranch {
		r.autoFail("Not every operation declares the %s tenant header", HeaderBranch)
	}

	if sawOperation && allOrg && allBranch {
		r.award(CategorySecurity, 25)
	}
}

// hasHeaderParam reports whether the effective set contains a header
// parameter with the given name. Header names compare case-insensitively.
func hasHeaderParam(params map[document.ParamKey]*document.Node, name string) bool {
	for key := range params {
		if key.In == "header" && strings.EqualFold(key.Name, name) {
			return true
		}
	}
	return false
}

// opPath builds the JSON path for an operation.
func opPath(path, method string) string {
	return "paths." + path + "." + method
}
