package profile

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for CLI runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*GradingProfile
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*GradingProfile)}
}

// ListProfiles implements Store.
func (s *MemoryStore) ListProfiles() ([]*GradingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*GradingProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetProfile implements Store.
func (s *MemoryStore) GetProfile(id string) (*GradingProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: not found", id)
	}
	return p, nil
}

// GetProfileRules implements Store.
func (s *MemoryStore) GetProfileRules(id string) ([]Rule, error) {
	p, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}
	return p.Rules, nil
}

// CreateProfile implements Store.
func (s *MemoryStore) CreateProfile(p *GradingProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[p.ID]; exists {
		return fmt.Errorf("profile %s: already exists", p.ID)
	}
	s.profiles[p.ID] = p
	return nil
}

// SetProfileRules implements Store.
func (s *MemoryStore) SetProfileRules(id string, rules []Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s: not found", id)
	}
	updated := *p
	updated.Rules = rules
	s.profiles[id] = &updated
	return nil
}
