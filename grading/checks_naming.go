package grading

import "strings"

// checkPathNaming requires every path key to start with the platform prefix.
// The gateway routes on that prefix, so a violation is unreachable in
// production and fails the run.
func (e *Evaluator) checkPathNaming(r *evalRun) {
	violations := 0

	paths := r.doc.At("paths")
	for _, path := range paths.Keys() {
		if strings.HasPrefix(path, RequiredPathPrefix+"/") || path == RequiredPathPrefix {
			continue
		}
		violations++
		r.finding("PATH-PREFIX", SeverityError, CategoryNaming, "paths."+path,
			"Path %q must begin with the %s prefix", path, RequiredPathPrefix)
		r.autoFail("Path %q does not begin with the required %s prefix", path, RequiredPathPrefix)
	}

	if violations == 0 {
		r.award(CategoryNaming, 10)
	}
}
