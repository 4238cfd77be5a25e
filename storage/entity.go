// Package storage persists grading runs and profile definitions in NATS KV.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/apigrade/detect"
	"github.com/c360studio/apigrade/grading"
	"github.com/c360studio/apigrade/priority"
	"github.com/c360studio/apigrade/scoring"
)

// EntityType represents the type of entity stored in KV.
type EntityType string

const (
	EntityTypeRun     EntityType = "run"
	EntityTypeProfile EntityType = "profile"
)

// Bucket names for each entity type.
const (
	BucketRuns     = "APIGRADE_RUNS"
	BucketProfiles = "APIGRADE_PROFILES"
)

// EntityID represents a typed entity identifier.
type EntityID struct {
	Type EntityType
	ID   string
}

// String returns the string representation of the entity ID.
func (e EntityID) String() string {
	return fmt.Sprintf("%s:%s", e.Type, e.ID)
}

// ParseEntityID parses an entity ID string into its components.
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return EntityID{}, fmt.Errorf("invalid entity ID format: %s", s)
	}
	entityType := EntityType(parts[0])
	switch entityType {
	case EntityTypeRun, EntityTypeProfile:
		return EntityID{Type: entityType, ID: parts[1]}, nil
	default:
		return EntityID{}, fmt.Errorf("unknown entity type: %s", parts[0])
	}
}

// NewEntityID generates a new unique entity ID for the given type.
func NewEntityID(t EntityType) EntityID {
	return EntityID{
		Type: t,
		ID:   uuid.New().String(),
	}
}

// GradingRun is the persisted record of one complete grading pass over a
// contract document.
type GradingRun struct {
	ID              string                 `json:"id"`
	RequestID       string                 `json:"request_id,omitempty"`
	APIID           string                 `json:"api_id"`
	SpecPath        string                 `json:"spec_path,omitempty"`
	ProfileID       string                 `json:"profile_id"`
	Findings        []grading.Finding      `json:"findings"`
	AutoFailReasons []string               `json:"auto_fail_reasons,omitempty"`
	Detection       *detect.Result         `json:"detection"`
	Matrix          *priority.Matrix       `json:"priority_matrix"`
	Score           *scoring.AdaptiveScore `json:"adaptive_score"`
	Passed          bool                   `json:"passed"`
	CreatedAt       time.Time              `json:"created_at"`
}

// Store provides grading-run storage backed by NATS KV.
type Store struct {
	runs jetstream.KeyValue
}

// NewStore creates a Store with the given JetStream context, creating the
// runs bucket if it doesn't exist.
func NewStore(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	runs, err := getOrCreateBucket(ctx, js, BucketRuns)
	if err != nil {
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}
	return &Store{runs: runs}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("apigrade %s storage", strings.ToLower(name)),
		History:     5,
	})
}

// CreateRun stores a new grading run and returns its ID.
func (s *Store) CreateRun(ctx context.Context, run *GradingRun) (EntityID, error) {
	id := NewEntityID(EntityTypeRun)
	run.ID = id.String()
	run.CreatedAt = time.Now()

	data, err := json.Marshal(run)
	if err != nil {
		return EntityID{}, fmt.Errorf("marshal run: %w", err)
	}

	if _, err := s.runs.Create(ctx, id.ID, data); err != nil {
		return EntityID{}, fmt.Errorf("store run: %w", err)
	}

	return id, nil
}

// GetRun retrieves a grading run by ID.
func (s *Store) GetRun(ctx context.Context, id EntityID) (*GradingRun, error) {
	if id.Type != EntityTypeRun {
		return nil, fmt.Errorf("invalid entity type: expected run, got %s", id.Type)
	}

	entry, err := s.runs.Get(ctx, id.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	var run GradingRun
	if err := json.Unmarshal(entry.Value(), &run); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}

	return &run, nil
}

// ListRuns returns all stored grading runs.
func (s *Store) ListRuns(ctx context.Context) ([]*GradingRun, error) {
	keys, err := s.runs.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list run keys: %w", err)
	}

	runs := make([]*GradingRun, 0, len(keys))
	for _, key := range keys {
		entry, err := s.runs.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		var run GradingRun
		if err := json.Unmarshal(entry.Value(), &run); err != nil {
			continue
		}
		runs = append(runs, &run)
	}

	return runs, nil
}

// ListRunsByAPI returns the stored runs for a given api-id, newest first.
func (s *Store) ListRunsByAPI(ctx context.Context, apiID string) ([]*GradingRun, error) {
	all, err := s.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	runs := make([]*GradingRun, 0)
	for _, run := range all {
		if run.APIID == apiID {
			runs = append(runs, run)
		}
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
