package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/apigrade/profile"
)

// KVProfileStore implements profile.Store on a NATS KV bucket, so profile
// definitions survive restarts and are shared across service instances.
// The profile.Store contract carries no context; operations bound their KV
// calls with the store's base context.
type KVProfileStore struct {
	ctx context.Context
	kv  jetstream.KeyValue
}

// NewKVProfileStore opens (or creates) the profiles bucket.
func NewKVProfileStore(ctx context.Context, js jetstream.JetStream) (*KVProfileStore, error) {
	kv, err := getOrCreateBucket(ctx, js, BucketProfiles)
	if err != nil {
		return nil, fmt.Errorf("create profiles bucket: %w", err)
	}
	return &KVProfileStore{ctx: ctx, kv: kv}, nil
}

// ListProfiles implements profile.Store.
func (s *KVProfileStore) ListProfiles() ([]*profile.GradingProfile, error) {
	keys, err := s.kv.Keys(s.ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list profile keys: %w", err)
	}

	profiles := make([]*profile.GradingProfile, 0, len(keys))
	for _, key := range keys {
		p, err := s.GetProfile(key)
		if err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// GetProfile implements profile.Store.
func (s *KVProfileStore) GetProfile(id string) (*profile.GradingProfile, error) {
	entry, err := s.kv.Get(s.ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}

	var p profile.GradingProfile
	if err := json.Unmarshal(entry.Value(), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile %s: %w", id, err)
	}
	return &p, nil
}

// GetProfileRules implements profile.Store.
func (s *KVProfileStore) GetProfileRules(id string) ([]profile.Rule, error) {
	p, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}
	return p.Rules, nil
}

// CreateProfile implements profile.Store.
func (s *KVProfileStore) CreateProfile(p *profile.GradingProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.ID, err)
	}

	if _, err := s.kv.Create(s.ctx, p.ID, data); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return fmt.Errorf("profile %s: %w", p.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("store profile %s: %w", p.ID, err)
	}
	return nil
}

// SetProfileRules implements profile.Store.
func (s *KVProfileStore) SetProfileRules(id string, rules []profile.Rule) error {
	p, err := s.GetProfile(id)
	if err != nil {
		return err
	}
	p.Rules = rules
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", id, err)
	}

	if _, err := s.kv.Put(s.ctx, id, data); err != nil {
		return fmt.Errorf("update profile %s: %w", id, err)
	}
	return nil
}
