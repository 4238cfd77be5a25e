package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherAppliesOverridesOnStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	overrides := `
profiles:
  rest-default:
    rules:
      - rule_id: RATE-HEADERS
        weight: 9
        category: required
  unknown-profile:
    rules:
      - rule_id: X
        weight: 1
        category: optional
`
	require.NoError(t, os.WriteFile(path, []byte(overrides), 0644))

	catalog := newTestCatalog(t)
	watcher, err := NewWatcher(catalog, WatcherConfig{Path: path, DebounceDelay: 10 * time.Millisecond})
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	p, err := catalog.Get(SeedREST)
	require.NoError(t, err)
	require.Len(t, p.Rules, 1, "override should replace seeded rules")
	assert.Equal(t, "RATE-HEADERS", p.Rules[0].RuleID)
	assert.Equal(t, float64(9), p.Rules[0].Weight)
}

func TestWatcherMissingFileIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	catalog := newTestCatalog(t)

	watcher, err := NewWatcher(catalog, WatcherConfig{Path: filepath.Join(dir, "absent.yaml")})
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, watcher.Start(ctx), "absent overrides file should not fail startup")
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	catalog := newTestCatalog(t)

	watcher, err := NewWatcher(catalog, WatcherConfig{Path: path, DebounceDelay: 20 * time.Millisecond})
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	overrides := `
profiles:
  grpc-gateway:
    rules:
      - rule_id: ERR-PROBLEM
        weight: 15
        category: required
`
	require.NoError(t, os.WriteFile(path, []byte(overrides), 0644))

	assert.Eventually(t, func() bool {
		p, err := catalog.Get(SeedGRPC)
		if err != nil {
			return false
		}
		return len(p.Rules) == 1 && p.Rules[0].Weight == 15
	}, 3*time.Second, 25*time.Millisecond, "override should apply after write event")
}
