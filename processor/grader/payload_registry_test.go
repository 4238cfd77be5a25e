package grader

import (
	"encoding/json"
	"testing"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"
)

// TestRegisterPayloads verifies both grading payload types register and
// that a registry-bound decoder recovers a typed request from the wire.
func TestRegisterPayloads(t *testing.T) {
	reg := payloadregistry.NewWithSubset(t, RegisterPayloads)

	req := &GradeRequest{
		RequestID: "req-1",
		Spec:      []byte("openapi: 3.1.0"),
		ProfileID: "rest-default",
	}
	data, err := json.Marshal(message.NewBaseMessage(req.Schema(), req, "grader"))
	if err != nil {
		t.Fatalf("marshal message: %v", err)
	}

	decoded, err := message.NewDecoder(reg).Decode(data)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	got, ok := decoded.Payload().(*GradeRequest)
	if !ok {
		t.Fatalf("expected *GradeRequest payload, got %T", decoded.Payload())
	}
	if got.RequestID != "req-1" {
		t.Errorf("expected RequestID=req-1, got %q", got.RequestID)
	}
	if string(got.Spec) != "openapi: 3.1.0" {
		t.Errorf("expected spec bytes preserved, got %q", got.Spec)
	}
	if got.ProfileID != "rest-default" {
		t.Errorf("expected ProfileID preserved, got %q", got.ProfileID)
	}
}

// TestRegisterPayloads_Duplicate verifies re-registration reports collisions.
func TestRegisterPayloads_Duplicate(t *testing.T) {
	reg := payloadregistry.NewWithSubset(t, RegisterPayloads)
	if err := RegisterPayloads(reg); err == nil {
		t.Error("expected error registering payloads twice")
	}
}

// TestGradeRequest_Validate verifies the request validation logic.
func TestGradeRequest_Validate(t *testing.T) {
	req := &GradeRequest{}
	if err := req.Validate(); err == nil {
		t.Error("expected error for empty request_id")
	}

	req.RequestID = "req-1"
	if err := req.Validate(); err == nil {
		t.Error("expected error for empty spec")
	}

	req.Spec = []byte("openapi: 3.1.0")
	if err := req.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestGradeRequest_JSONRoundTrip verifies the request survives JSON encoding.
func TestGradeRequest_JSONRoundTrip(t *testing.T) {
	req := &GradeRequest{
		RequestID: "req-1",
		Spec:      []byte(`{"openapi":"3.1.0"}`),
		ProfileID: "saas-multi-tenant",
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	var decoded GradeRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}

	if decoded.RequestID != "req-1" {
		t.Errorf("expected RequestID=req-1, got %q", decoded.RequestID)
	}
	if decoded.ProfileID != "saas-multi-tenant" {
		t.Errorf("expected ProfileID preserved, got %q", decoded.ProfileID)
	}
	if string(decoded.Spec) != `{"openapi":"3.1.0"}` {
		t.Errorf("expected spec bytes preserved, got %q", decoded.Spec)
	}
}

// TestGradeRequest_Schema verifies the request schema matches registration.
func TestGradeRequest_Schema(t *testing.T) {
	req := &GradeRequest{RequestID: "req-1"}

	schema := req.Schema()
	if schema.Domain != "grading" {
		t.Errorf("expected Domain=grading, got %q", schema.Domain)
	}
	if schema.Category != "grade-request" {
		t.Errorf("expected Category=grade-request, got %q", schema.Category)
	}
	if schema.Version != "v1" {
		t.Errorf("expected Version=v1, got %q", schema.Version)
	}
}

// TestGradeResult_Schema verifies the result schema matches registration.
func TestGradeResult_Schema(t *testing.T) {
	result := &GradeResult{
		RequestID: "req-1",
		Score:     87.5,
		Passed:    true,
	}

	schema := result.Schema()
	if schema.Domain != "grading" {
		t.Errorf("expected Domain=grading, got %q", schema.Domain)
	}
	if schema.Category != "grade-result" {
		t.Errorf("expected Category=grade-result, got %q", schema.Category)
	}
	if schema.Version != "v1" {
		t.Errorf("expected Version=v1, got %q", schema.Version)
	}
}
