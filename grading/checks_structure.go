package grading

import (
	"regexp"
	"strings"
)

var (
	openAPIVersionRe = regexp.MustCompile(`^3\.\d+(\.\d+)?$`)
	semverRe         = regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)
)

// checkVersion enforces the mandated OpenAPI release family. Any document
// outside the required family fails the run outright: tooling downstream of
// the guide assumes its feature set.
func (e *Evaluator) checkVersion(r *evalRun) {
	version, ok := r.doc.At("openapi").Str()
	if !ok {
		r.finding("OAS-VERSION", SeverityError, CategoryNaming, "openapi",
			"Document does not declare an openapi version field")
		r.autoFail("Missing openapi version field; the guide requires OpenAPI %s", RequiredOpenAPIPrefix)
		return
	}

	if !openAPIVersionRe.MatchString(version) || !strings.HasPrefix(version, RequiredOpenAPIPrefix) {
		r.finding("OAS-VERSION", SeverityError, CategoryNaming, "openapi",
			"OpenAPI version %q does not match the required %s.x family", version, RequiredOpenAPIPrefix)
		r.autoFail("OpenAPI version mismatch: found %q, the guide requires %s.x", version, RequiredOpenAPIPrefix)
		return
	}

	r.award(CategoryNaming, 5)
}

// checkSemver validates info.version as a semantic version.
func (e *Evaluator) checkSemver(r *evalRun) {
	version, ok := r.doc.At("info", "version").Str()
	if !ok || !semverRe.MatchString(version) {
		r.finding("VER-SEMVER", SeverityWarn, CategoryDocumentation, "info.version",
			"info.version %q is not a semantic version (MAJOR.MINOR.PATCH)", version)
		return
	}
	r.award(CategoryDocumentation, 3)
}

// checkContact requires a contact email so consumers can reach the owning team.
func (e *Evaluator) checkContact(r *evalRun) {
	email, ok := r.doc.At("info", "contact", "email").Str()
	if !ok || !strings.Contains(email, "@") {
		r.finding("DOC-CONTACT", SeverityWarn, CategoryDocumentation, "info.contact.email",
			"info.contact.email is missing; every API must name an owning contact")
		return
	}
	r.award(CategoryDocumentation, 3)
}
