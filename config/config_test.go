package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected localhost NATS URL by default, got %s", cfg.NATS.URL)
	}
	if cfg.Grading.NegationScope != "global" {
		t.Errorf("expected default negation scope global, got %s", cfg.Grading.NegationScope)
	}
	if len(cfg.Specs.Patterns) == 0 {
		t.Error("expected a default spec pattern")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "proximity negation scope",
			modify:  func(c *Config) { c.Grading.NegationScope = "proximity" },
			wantErr: false,
		},
		{
			name:    "missing nats url",
			modify:  func(c *Config) { c.NATS.URL = "" },
			wantErr: true,
		},
		{
			name:    "unknown negation scope",
			modify:  func(c *Config) { c.Grading.NegationScope = "paragraph" },
			wantErr: true,
		},
		{
			name:    "empty spec patterns",
			modify:  func(c *Config) { c.Specs.Patterns = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
nats:
  url: "nats://test:4222"
grading:
  default_profile: "saas-multi-tenant"
  negation_scope: "proximity"
profiles:
  overrides_path: "/etc/apigrade/profiles.yaml"
specs:
  patterns:
    - "./contracts/**/*.yaml"
    - "./contracts/**/*.json"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if cfg.Grading.DefaultProfile != "saas-multi-tenant" {
		t.Errorf("expected default profile saas-multi-tenant, got %s", cfg.Grading.DefaultProfile)
	}
	if cfg.Grading.NegationScope != "proximity" {
		t.Errorf("expected negation scope proximity, got %s", cfg.Grading.NegationScope)
	}
	if cfg.Profiles.OverridesPath != "/etc/apigrade/profiles.yaml" {
		t.Errorf("unexpected overrides path %s", cfg.Profiles.OverridesPath)
	}
	if len(cfg.Specs.Patterns) != 2 {
		t.Errorf("expected 2 spec patterns, got %d", len(cfg.Specs.Patterns))
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		NATS: NATSConfig{
			URL: "nats://override:4222",
		},
		Grading: GradingConfig{
			DefaultProfile: "rest-default",
		},
	}

	base.Merge(override)

	if base.NATS.URL != "nats://override:4222" {
		t.Errorf("expected NATS URL override, got %s", base.NATS.URL)
	}
	if base.Grading.DefaultProfile != "rest-default" {
		t.Errorf("expected default profile rest-default, got %s", base.Grading.DefaultProfile)
	}
	// Negation scope should remain from base since override didn't set it
	if base.Grading.NegationScope != "global" {
		t.Errorf("expected negation scope to remain default, got %s", base.Grading.NegationScope)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Grading.DefaultProfile = "grpc-gateway"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Grading.DefaultProfile != "grpc-gateway" {
		t.Errorf("expected default profile grpc-gateway, got %s", loaded.Grading.DefaultProfile)
	}
}

func TestLoaderEnvOverrides(t *testing.T) {
	t.Setenv(EnvNATSURL, "nats://env:4222")
	t.Setenv(EnvDefaultProfile, "microservice-standard")

	cfg := DefaultConfig()
	NewLoader(nil).applyEnv(cfg)

	if cfg.NATS.URL != "nats://env:4222" {
		t.Errorf("expected env NATS URL, got %s", cfg.NATS.URL)
	}
	if cfg.Grading.DefaultProfile != "microservice-standard" {
		t.Errorf("expected env default profile, got %s", cfg.Grading.DefaultProfile)
	}
}
