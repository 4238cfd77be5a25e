package document

import (
	"testing"
)

func TestFromYAML(t *testing.T) {
	data := []byte(`
openapi: 3.0.2
info:
  title: Orders API
  version: 1.2.0
paths:
  /api/v2/orders:
    get:
      parameters:
        - name: limit
          in: query
`)
	doc, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML() error = %v", err)
	}

	t.Run("scalar access", func(t *testing.T) {
		if got := doc.At("openapi").StrOr(""); got != "3.0.2" {
			t.Errorf("openapi = %q, want 3.0.2", got)
		}
		if got := doc.At("info", "title").StrOr(""); got != "Orders API" {
			t.Errorf("info.title = %q, want Orders API", got)
		}
	})

	t.Run("missing path is null not panic", func(t *testing.T) {
		n := doc.At("info", "contact", "email")
		if !n.IsNull() {
			t.Errorf("expected Null for missing path, got kind %v", n.Kind())
		}
	})

	t.Run("array navigation", func(t *testing.T) {
		params := doc.At("paths", "/api/v2/orders", "get", "parameters")
		if !params.IsArray() || params.Len() != 1 {
			t.Fatalf("expected 1 parameter, got kind=%v len=%d", params.Kind(), params.Len())
		}
		first, ok := params.Index(0)
		if !ok {
			t.Fatal("Index(0) reported absence")
		}
		if got := first.At("name").StrOr(""); got != "limit" {
			t.Errorf("parameter name = %q, want limit", got)
		}
	})

	t.Run("key order preserved", func(t *testing.T) {
		keys := doc.Keys()
		want := []string{"openapi", "info", "paths"}
		if len(keys) != len(want) {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
			}
		}
	})
}

func TestFromAnyMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"string", "hello", KindScalar},
		{"int", 42, KindScalar},
		{"non-string keys stringified", map[any]any{1: "a"}, KindObject},
		{"empty map", map[string]any{}, KindObject},
		{"empty slice", []any{}, KindArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FromAny(tt.in)
			if n.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", n.Kind(), tt.kind)
			}
		})
	}
}

func TestNilNodeAccessors(t *testing.T) {
	var n *Node

	if !n.IsNull() {
		t.Error("nil node should be null")
	}
	if _, ok := n.Field("x"); ok {
		t.Error("Field on nil node should report absence")
	}
	if !n.At("a", "b").IsNull() {
		t.Error("At on nil node should return Null")
	}
	if n.Len() != 0 {
		t.Error("Len on nil node should be 0")
	}
}

func TestFloatConversions(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"float64", 2.5, 2.5, true},
		{"string", "2.5", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromAny(tt.in).Float()
			if ok != tt.ok || got != tt.want {
				t.Errorf("Float() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
