package detect

import (
	"testing"

	"github.com/c360studio/apigrade/document"
)

func parseDoc(t *testing.T, yaml string) *document.Node {
	t.Helper()
	doc, err := document.FromYAML([]byte(yaml))
	if err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}
	return doc
}

func TestDetectGraphQL(t *testing.T) {
	doc := parseDoc(t, `
openapi: 3.1.0
info:
  title: Gateway
  version: 1.0.0
paths:
  /graphql:
    post:
      description: Execute a query or mutation against the schema.
      responses:
        '200':
          description: ok
`)
	result := NewDetector().Detect(doc)

	if result.DetectedProfile != ProfileGraphQL {
		t.Fatalf("DetectedProfile = %q, want %q", result.DetectedProfile, ProfileGraphQL)
	}
	if len(result.Alternatives) != 2 {
		t.Fatalf("Alternatives = %d entries, want 2", len(result.Alternatives))
	}
	for _, alt := range result.Alternatives {
		if alt.Profile == ProfileGraphQL {
			t.Error("the winner must not appear among alternatives")
		}
	}
	if result.Confidence < 0.9 {
		t.Errorf("Confidence = %v, want decisive (>= 0.9) for a pure GraphQL surface", result.Confidence)
	}
	if len(result.Reasoning.MatchedPatterns) == 0 {
		t.Error("expected matched patterns in reasoning")
	}
}

func TestDetectSaaS(t *testing.T) {
	doc := parseDoc(t, `
openapi: 3.1.0
info:
  title: Tenant Platform
  version: 1.0.0
components:
  securitySchemes:
    oauth:
      type: oauth2
      flows:
        clientCredentials:
          scopes:
            org:read: Read organization data
  schemas:
    WebhookEvent:
      type: object
paths:
  /api/v2/organizations/{orgId}/projects:
    get:
      parameters:
        - name: X-Organization-Id
          in: header
      responses:
        '200':
          description: ok
`)
	result := NewDetector().Detect(doc)

	if result.DetectedProfile != ProfileSaaS {
		t.Errorf("DetectedProfile = %q, want %q", result.DetectedProfile, ProfileSaaS)
	}
}

func TestDetectMicroservice(t *testing.T) {
	doc := parseDoc(t, `
openapi: 3.1.0
info:
  title: Inventory Service
  version: 1.0.0
paths:
  /api/v2/inventory:
    get:
      responses:
        '200':
          description: ok
  /health:
    get:
      responses:
        '200':
          description: ok
`)
	result := NewDetector().Detect(doc)

	if result.DetectedProfile != ProfileMicroservice {
		t.Errorf("DetectedProfile = %q, want %q", result.DetectedProfile, ProfileMicroservice)
	}
}

func TestDetectEmptyDocument(t *testing.T) {
	result := NewDetector().Detect(document.Null)

	if result.DetectedProfile == "" {
		t.Error("detection must pick a winner even for an empty document")
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("Confidence = %v, want within [0,1]", result.Confidence)
	}
}

func TestScoreBounds(t *testing.T) {
	docs := []string{
		`{}`,
		`{"paths": {"/graphql": {"post": {}}}}`,
		`{"paths": {"/api/v2/users": {"get": {}, "post": {}}}}`,
	}
	for _, raw := range docs {
		doc := parseDoc(t, raw)
		for _, arch := range builtinArchetypes() {
			score := arch.score(doc)
			if score.Score < 0 || score.Score > 100 {
				t.Errorf("%s score = %v for %s, want within [0,100]", arch.name, score.Score, raw)
			}
		}
	}

	t.Run("zero total weight scores zero", func(t *testing.T) {
		empty := archetype{name: "empty"}
		if got := empty.score(document.Null).Score; got != 0 {
			t.Errorf("score = %v, want 0", got)
		}
	})
}

func TestConfidenceShaping(t *testing.T) {
	ranked := func(top, second float64) []ProfileScore {
		return []ProfileScore{{Profile: "a", Score: top}, {Profile: "b", Score: second}}
	}

	tests := []struct {
		name string
		top  float64
		gap  float64
		want float64
	}{
		{"decisive gap scales up with cap", 90, 40, 0.95},
		{"mid gap passes through", 80, 20, 0.8},
		{"narrow gap scales down", 80, 5, 0.68},
		{"narrow gap floors at 0.5", 40, 5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidenceFor(ranked(tt.top, tt.top-tt.gap))
			if got != tt.want {
				t.Errorf("confidenceFor(top=%v, gap=%v) = %v, want %v", tt.top, tt.gap, got, tt.want)
			}
		})
	}

	t.Run("monotone in gap below 30", func(t *testing.T) {
		prev := -1.0
		for gap := 0.0; gap <= 30; gap += 2 {
			got := confidenceFor(ranked(85, 85-gap))
			if got < prev {
				t.Fatalf("confidence decreased from %v to %v at gap %v", prev, got, gap)
			}
			prev = got
		}
	})

	t.Run("missing indicators only above weight 20", func(t *testing.T) {
		doc := parseDoc(t, `{"paths": {"/graphql": {"post": {"description": "mutation endpoint"}}}}`)
		result := NewDetector().Detect(doc)
		for _, missing := range result.Reasoning.MissingIndicators {
			for _, sig := range builtinArchetypes()[1].signals {
				if sig.sigType == missing && sig.weight <= significantWeight {
					t.Errorf("indicator %s has weight %v, should not be surfaced", missing, sig.weight)
				}
			}
		}
	})
}
