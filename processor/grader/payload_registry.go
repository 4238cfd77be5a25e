package grader

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"

	"github.com/c360studio/apigrade/detect"
	"github.com/c360studio/apigrade/grading"
	"github.com/c360studio/apigrade/priority"
	"github.com/c360studio/apigrade/scoring"
)

// Message type identity for grading payloads.
const (
	Domain               = "grading"
	CategoryGradeRequest = "grade-request"
	CategoryGradeResult  = "grade-result"
	SchemaVersion        = "v1"
)

// GradeRequest is published to grading.request.grader. Spec carries the raw
// contract document bytes (YAML or JSON); ProfileID optionally pins a
// grading profile instead of using the detected archetype's default.
type GradeRequest struct {
	RequestID       string                   `json:"request_id"`
	Spec            []byte                   `json:"spec"`
	SpecPath        string                   `json:"spec_path,omitempty"`
	ProfileID       string                   `json:"profile_id,omitempty"`
	PriorityContext *priority.Context        `json:"priority_context,omitempty"`
	BusinessContext *scoring.BusinessContext `json:"business_context,omitempty"`
}

// Schema implements message.Payload.
func (p *GradeRequest) Schema() message.Type {
	return GradeRequestType
}

// Validate implements message.Payload.
func (p *GradeRequest) Validate() error {
	if p.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}
	if len(p.Spec) == 0 {
		return fmt.Errorf("spec is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *GradeRequest) MarshalJSON() ([]byte, error) {
	type Alias GradeRequest
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *GradeRequest) UnmarshalJSON(data []byte) error {
	type Alias GradeRequest
	return json.Unmarshal(data, (*Alias)(p))
}

// GradeResult is published to grading.result.grader.<request_id>. It is the
// complete outcome of one grading pass, fit for direct JSON consumers.
type GradeResult struct {
	RequestID       string                 `json:"request_id"`
	APIID           string                 `json:"api_id"`
	ProfileID       string                 `json:"profile_id"`
	Score           float64                `json:"score"`
	Passed          bool                   `json:"passed"`
	Findings        []grading.Finding      `json:"findings"`
	AutoFailReasons []string               `json:"auto_fail_reasons,omitempty"`
	Detection       *detect.Result         `json:"detection"`
	Matrix          *priority.Matrix       `json:"priority_matrix"`
	AdaptiveScore   *scoring.AdaptiveScore `json:"adaptive_score"`
	Error           string                 `json:"error,omitempty"`
}

// Schema implements message.Payload.
func (p *GradeResult) Schema() message.Type {
	return GradeResultType
}

// Validate implements message.Payload.
func (p *GradeResult) Validate() error {
	if p.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *GradeResult) MarshalJSON() ([]byte, error) {
	type Alias GradeResult
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *GradeResult) UnmarshalJSON(data []byte) error {
	type Alias GradeResult
	return json.Unmarshal(data, (*Alias)(p))
}

// GradeRequestType is the message type for grading requests.
var GradeRequestType = message.Type{
	Domain:   Domain,
	Category: CategoryGradeRequest,
	Version:  SchemaVersion,
}

// GradeResultType is the message type for grading results.
var GradeResultType = message.Type{
	Domain:   Domain,
	Category: CategoryGradeResult,
	Version:  SchemaVersion,
}

// RegisterPayloads registers the grading payload types with the supplied
// registry. Called by binaries after the registry is constructed, layered
// on top of payloadbuiltins.Register. Aggregates errors via errors.Join.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	registrations := []*payloadregistry.Registration{
		{
			Domain:      Domain,
			Category:    CategoryGradeRequest,
			Version:     SchemaVersion,
			Description: "Contract grading request: raw spec bytes plus business context",
			Factory:     func() any { return &GradeRequest{} },
		},
		{
			Domain:      Domain,
			Category:    CategoryGradeResult,
			Version:     SchemaVersion,
			Description: "Contract grading result: findings, detection, and adaptive score",
			Factory:     func() any { return &GradeResult{} },
		},
	}

	var errs []error
	for _, r := range registrations {
		if err := reg.Register(r); err != nil {
			errs = append(errs, fmt.Errorf("register %s.%s.%s: %w", r.Domain, r.Category, r.Version, err))
		}
	}
	return errors.Join(errs...)
}
