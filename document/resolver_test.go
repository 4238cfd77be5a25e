package document

import "testing"

func testDoc(t *testing.T) *Node {
	t.Helper()
	doc, err := FromYAML([]byte(`
components:
  parameters:
    OrgHeader:
      name: X-Organization-Id
      in: header
      required: true
  schemas:
    Problem:
      type: object
paths:
  /api/v2/users:
    parameters:
      - $ref: '#/components/parameters/OrgHeader'
      - name: limit
        in: query
    get:
      parameters:
        - name: limit
          in: query
          description: operation-level wins
`))
	if err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}
	return doc
}

func TestResolveRef(t *testing.T) {
	doc := testDoc(t)

	tests := []struct {
		name  string
		ref   string
		found bool
	}{
		{"existing parameter", "#/components/parameters/OrgHeader", true},
		{"existing schema", "#/components/schemas/Problem", true},
		{"missing segment", "#/components/parameters/Nope", false},
		{"walks off scalar", "#/components/parameters/OrgHeader/name/deeper", false},
		{"external ref rejected", "other.yaml#/components", false},
		{"relative pointer rejected", "/components/parameters", false},
		{"empty ref rejected", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := ResolveRef(doc, tt.ref)
			if ok != tt.found {
				t.Fatalf("ResolveRef(%q) found = %v, want %v", tt.ref, ok, tt.found)
			}
			if !ok && !node.IsNull() {
				t.Error("not-found resolution should return Null")
			}
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		first, ok1 := ResolveRef(doc, "#/components/parameters/OrgHeader")
		second, ok2 := ResolveRef(doc, "#/components/parameters/OrgHeader")
		if ok1 != ok2 || first != second {
			t.Error("resolving the same ref twice should yield the identical node")
		}
	})
}

func TestResolveRefEscapedSegments(t *testing.T) {
	doc, err := FromYAML([]byte(`
paths:
  /api/v2/users:
    description: users collection
`))
	if err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}

	node, ok := ResolveRef(doc, "#/paths/~1api~1v2~1users/description")
	if !ok {
		t.Fatal("expected escaped path segment to resolve")
	}
	if got := node.StrOr(""); got != "users collection" {
		t.Errorf("resolved = %q, want %q", got, "users collection")
	}
}

func TestEffectiveParameters(t *testing.T) {
	doc := testDoc(t)
	pathItem := doc.At("paths", "/api/v2/users")
	op := pathItem.At("get")

	params := EffectiveParameters(doc, pathItem, op)

	t.Run("ref resolved before keying", func(t *testing.T) {
		p, ok := params[ParamKey{In: "header", Name: "X-Organization-Id"}]
		if !ok {
			t.Fatal("expected path-level $ref parameter in effective set")
		}
		if req, _ := p.At("required").Bool(); !req {
			t.Error("resolved parameter should expose its target fields")
		}
	})

	t.Run("operation level overrides path level", func(t *testing.T) {
		p, ok := params[ParamKey{In: "query", Name: "limit"}]
		if !ok {
			t.Fatal("expected limit parameter in effective set")
		}
		if got := p.At("description").StrOr(""); got != "operation-level wins" {
			t.Errorf("description = %q, want operation-level declaration", got)
		}
	})

	t.Run("count reflects merged identity", func(t *testing.T) {
		if len(params) != 2 {
			t.Errorf("len = %d, want 2 (org header + merged limit)", len(params))
		}
	})
}

func TestEffectiveParametersDegenerate(t *testing.T) {
	doc := testDoc(t)

	params := EffectiveParameters(doc, Null, Null)
	if len(params) != 0 {
		t.Errorf("degenerate inputs should yield empty set, got %d", len(params))
	}

	// Dangling $ref entries are skipped, not errors.
	pathItem := Object("parameters", Array(Object("$ref", "#/components/parameters/Missing")))
	params = EffectiveParameters(doc, pathItem, Null)
	if len(params) != 0 {
		t.Errorf("dangling ref should be skipped, got %d entries", len(params))
	}
}
