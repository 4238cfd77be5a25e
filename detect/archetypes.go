package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/apigrade/document"
)

// Profile names for the built-in archetypes.
const (
	ProfileREST         = "REST"
	ProfileGraphQL      = "GraphQL"
	ProfileSaaS         = "SaaS"
	ProfileMicroservice = "Microservice"
	ProfileGRPC         = "gRPC"
)

// signalDef is one evidence check for an archetype.
type signalDef struct {
	sigType string
	weight  float64
	check   func(doc *document.Node) (bool, []string)
}

// archetype is a named bundle of evidence signals.
type archetype struct {
	name    string
	signals []signalDef
}

// score evaluates every signal and returns the earned/total ratio as a
// 0-100 score. A zero total weight scores 0.
func (a archetype) score(doc *document.Node) ProfileScore {
	total := 0.0
	earned := 0.0
	signals := make([]Signal, 0, len(a.signals))

	for _, def := range a.signals {
		found, evidence := def.check(doc)
		total += def.weight
		if found {
			earned += def.weight
		}
		signals = append(signals, Signal{
			Type:     def.sigType,
			Weight:   def.weight,
			Found:    found,
			Evidence: evidence,
		})
	}

	score := 0.0
	if total > 0 {
		score = earned / total * 100
	}
	return ProfileScore{Profile: a.name, Score: score, Signals: signals}
}

var (
	pluralSegmentRe = regexp.MustCompile(`/[a-z-]+s(/|$|\{)`)
	rpcPathRe       = regexp.MustCompile(`^/[A-Z][A-Za-z]*/[A-Z][A-Za-z]*$`)
	graphqlTermRe   = regexp.MustCompile(`\b(mutation|query|subscription)s?\b`)
	tenantScopeRe   = regexp.MustCompile(`(tenant|org|organization)`)
	orgPathRe       = regexp.MustCompile(`/(organizations|tenants|workspaces|accounts)(/|$|\{)`)
	serviceTitleRe  = regexp.MustCompile(`(?i)(service|svc)$`)
)

func builtinArchetypes() []archetype {
	return []archetype{
		{
			name: ProfileREST,
			signals: []signalDef{
				{"plural-resource-paths", 30, pluralResourcePaths},
				{"id-path-parameters", 25, idPathParameters},
				{"method-spectrum", 25, methodSpectrum},
				{"status-code-spectrum", 20, statusCodeSpectrum},
			},
		},
		{
			name: ProfileGraphQL,
			signals: []signalDef{
				{"single-graphql-path", 35, singleGraphQLPath},
				{"single-post-operation", 25, singlePostOnGraphQL},
				{"graphql-vocabulary", 25, graphqlVocabulary},
				{"no-resource-paths", 15, noResourcePaths},
			},
		},
		{
			name: ProfileSaaS,
			signals: []signalDef{
				{"tenant-headers", 35, tenantHeaders},
				{"tenant-scoped-oauth", 20, tenantScopedOAuth},
				{"organization-paths", 25, organizationPaths},
				{"webhook-components", 20, webhookComponents},
			},
		},
		{
			name: ProfileMicroservice,
			signals: []signalDef{
				{"small-surface", 25, smallSurface},
				{"health-endpoints", 35, healthEndpoints},
				{"single-concern-tags", 15, singleConcernTags},
				{"service-title", 25, serviceTitle},
			},
		},
		{
			name: ProfileGRPC,
			signals: []signalDef{
				{"rpc-style-paths", 40, rpcStylePaths},
				{"all-post-operations", 30, allPostOperations},
				{"binary-content-types", 30, binaryContentTypes},
			},
		},
	}
}

// --- shared walkers ---

func pathKeys(doc *document.Node) []string {
	return doc.At("paths").Keys()
}

func forEachOp(doc *document.Node, fn func(path, method string, op *document.Node)) {
	paths := doc.At("paths")
	for _, path := range paths.Keys() {
		item, _ := paths.Field(path)
		for _, method := range []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"} {
			if op, ok := item.Field(method); ok && op.IsObject() {
				fn(path, method, op)
			}
		}
	}
}

// descriptionBlob concatenates every description and summary in the document,
// lower-cased.
func descriptionBlob(doc *document.Node) string {
	var sb strings.Builder
	var walk func(n *document.Node)
	walk = func(n *document.Node) {
		switch n.Kind() {
		case document.KindObject:
			for _, key := range n.Keys() {
				child, _ := n.Field(key)
				if key == "description" || key == "summary" {
					if s, ok := child.Str(); ok {
						sb.WriteString(strings.ToLower(s))
						sb.WriteByte('\n')
					}
					continue
				}
				walk(child)
			}
		case document.KindArray:
			for _, item := range n.Items() {
				walk(item)
			}
		}
	}
	walk(doc)
	return sb.String()
}

// --- REST signals ---

func pluralResourcePaths(doc *document.Node) (bool, []string) {
	var evidence []string
	for _, path := range pathKeys(doc) {
		if pluralSegmentRe.MatchString(strings.ToLower(path) + "/") {
			evidence = append(evidence, "resource path "+path)
		}
	}
	return len(evidence) > 0, capEvidence(evidence)
}

func idPathParameters(doc *document.Node) (bool, []string) {
	for _, path := range pathKeys(doc) {
		if strings.Contains(path, "{") {
			return true, []string{"path parameter in " + path}
		}
	}
	return false, nil
}

func methodSpectrum(doc *document.Node) (bool, []string) {
	methods := map[string]bool{}
	forEachOp(doc, func(_, method string, _ *document.Node) {
		methods[method] = true
	})
	if len(methods) >= 4 {
		return true, []string{fmt.Sprintf("%d distinct HTTP methods in use", len(methods))}
	}
	return false, nil
}

func statusCodeSpectrum(doc *document.Node) (bool, []string) {
	codes := map[string]bool{}
	forEachOp(doc, func(_, _ string, op *document.Node) {
		for _, code := range op.At("responses").Keys() {
			codes[code] = true
		}
	})
	for _, want := range []string{"200", "201", "404"} {
		if !codes[want] {
			return false, nil
		}
	}
	return true, []string{"standard 200/201/404 response spectrum"}
}

// --- GraphQL signals ---

func singleGraphQLPath(doc *document.Node) (bool, []string) {
	keys := pathKeys(doc)
	if len(keys) == 1 && strings.HasSuffix(strings.ToLower(keys[0]), "graphql") {
		return true, []string{"single path " + keys[0]}
	}
	return false, nil
}

func singlePostOnGraphQL(doc *document.Node) (bool, []string) {
	posts := 0
	others := 0
	forEachOp(doc, func(path, method string, _ *document.Node) {
		if !strings.Contains(strings.ToLower(path), "graphql") {
			others++
			return
		}
		if method == "post" {
			posts++
		} else {
			others++
		}
	})
	if posts == 1 && others == 0 {
		return true, []string{"exactly one POST operation on the graphql path"}
	}
	return false, nil
}

func graphqlVocabulary(doc *document.Node) (bool, []string) {
	blob := descriptionBlob(doc)
	matches := graphqlTermRe.FindAllString(blob, -1)
	if len(matches) == 0 {
		return false, nil
	}
	return true, []string{"graphql vocabulary in descriptions: " + strings.Join(dedupe(matches), ", ")}
}

func noResourcePaths(doc *document.Node) (bool, []string) {
	found, _ := pluralResourcePaths(doc)
	if found {
		return false, nil
	}
	return true, []string{"no plural resource paths"}
}

// --- SaaS signals ---

func tenantHeaders(doc *document.Node) (bool, []string) {
	var evidence []string
	forEachOp(doc, func(path, method string, op *document.Node) {
		paths := doc.At("paths")
		item, _ := paths.Field(path)
		for key := range document.EffectiveParameters(doc, item, op) {
			if key.In == "header" && tenantScopeRe.MatchString(strings.ToLower(key.Name)) {
				evidence = append(evidence, key.Name+" header on "+strings.ToUpper(method)+" "+path)
			}
		}
	})
	return len(evidence) > 0, capEvidence(evidence)
}

func tenantScopedOAuth(doc *document.Node) (bool, []string) {
	schemes := doc.At("components", "securitySchemes")
	for _, name := range schemes.Keys() {
		scheme, _ := schemes.Field(name)
		for _, flow := range scheme.At("flows").Keys() {
			scopes := scheme.At("flows", flow, "scopes")
			for _, scope := range scopes.Keys() {
				if tenantScopeRe.MatchString(strings.ToLower(scope)) {
					return true, []string{"tenant-scoped OAuth scope " + scope}
				}
			}
		}
	}
	return false, nil
}

func organizationPaths(doc *document.Node) (bool, []string) {
	for _, path := range pathKeys(doc) {
		if orgPathRe.MatchString(strings.ToLower(path)) {
			return true, []string{"organization-scoped path " + path}
		}
	}
	return false, nil
}

func webhookComponents(doc *document.Node) (bool, []string) {
	if doc.At("webhooks").Len() > 0 {
		return true, []string{"webhooks section present"}
	}
	for _, name := range doc.At("components", "schemas").Keys() {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "webhook") || strings.Contains(lower, "callback") {
			return true, []string{"webhook schema " + name}
		}
	}
	return false, nil
}

// --- Microservice signals ---

func smallSurface(doc *document.Node) (bool, []string) {
	n := len(pathKeys(doc))
	if n > 0 && n <= 8 {
		return true, []string{fmt.Sprintf("small surface: %d paths", n)}
	}
	return false, nil
}

func healthEndpoints(doc *document.Node) (bool, []string) {
	for _, path := range pathKeys(doc) {
		lower := strings.ToLower(path)
		if strings.HasSuffix(lower, "/health") || strings.HasSuffix(lower, "/healthz") ||
			strings.HasSuffix(lower, "/ready") || strings.HasSuffix(lower, "/livez") {
			return true, []string{"health endpoint " + path}
		}
	}
	return false, nil
}

func singleConcernTags(doc *document.Node) (bool, []string) {
	tags := doc.At("tags")
	if tags.IsNull() || tags.Len() <= 1 {
		return true, []string{"single-concern tag surface"}
	}
	return false, nil
}

func serviceTitle(doc *document.Node) (bool, []string) {
	title, ok := doc.At("info", "title").Str()
	if ok && serviceTitleRe.MatchString(strings.TrimSpace(title)) {
		return true, []string{"service-suffixed title " + title}
	}
	return false, nil
}

// --- gRPC signals ---

func rpcStylePaths(doc *document.Node) (bool, []string) {
	var evidence []string
	for _, path := range pathKeys(doc) {
		if rpcPathRe.MatchString(path) {
			evidence = append(evidence, "rpc-style path "+path)
		}
	}
	return len(evidence) > 0, capEvidence(evidence)
}

func allPostOperations(doc *document.Node) (bool, []string) {
	total := 0
	posts := 0
	forEachOp(doc, func(_, method string, _ *document.Node) {
		total++
		if method == "post" {
			posts++
		}
	})
	if total > 0 && posts == total {
		return true, []string{fmt.Sprintf("all %d operations are POST", total)}
	}
	return false, nil
}

func binaryContentTypes(doc *document.Node) (bool, []string) {
	found := false
	var evidence []string
	forEachOp(doc, func(path, _ string, op *document.Node) {
		for _, code := range op.At("responses").Keys() {
			for _, ct := range op.At("responses", code, "content").Keys() {
				lower := strings.ToLower(ct)
				if strings.Contains(lower, "grpc") || strings.Contains(lower, "protobuf") ||
					lower == "application/octet-stream" {
					found = true
					evidence = append(evidence, ct+" content on "+path)
				}
			}
		}
	})
	return found, capEvidence(evidence)
}

// --- helpers ---

// capEvidence keeps reasoning output readable on large documents.
func capEvidence(evidence []string) []string {
	const max = 5
	if len(evidence) > max {
		return evidence[:max]
	}
	return evidence
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
