package grove

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grove.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
title = "test scene"
width = 800
height = 600
seed = 42

[[population]]
role = "bauble"
count = 20
palette = 3

[[population]]
role = "photo"
count = 8
palette = 1
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "test scene" || cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("window config = %q %dx%d", cfg.Title, cfg.Width, cfg.Height)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if len(cfg.Populations) != 2 {
		t.Fatalf("len(Populations) = %d, want 2", len(cfg.Populations))
	}
	if cfg.Populations[1].Role != "photo" || cfg.Populations[1].Count != 8 {
		t.Errorf("population[1] = %+v", cfg.Populations[1])
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("GROVE_SEED", "777")
	path := writeConfig(t, `
width = 800
height = 600
seed = 1

[[population]]
role = "bauble"
count = 10
palette = 2
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 777 {
		t.Errorf("Seed = %d, want env override 777", cfg.Seed)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigValidation(t *testing.T) {
	base := DefaultConfig()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"no populations", func(c *Config) { c.Populations = nil }},
		{"unknown role", func(c *Config) { c.Populations[0].Role = "tinsel" }},
		{"duplicate role", func(c *Config) { c.Populations[1].Role = "bauble" }},
		{"non-positive count", func(c *Config) { c.Populations[0].Count = 0 }},
		{"negative count", func(c *Config) { c.Populations[0].Count = -1 }},
		{"non-positive palette", func(c *Config) { c.Populations[0].Palette = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.Populations = append([]PopulationSpec(nil), base.Populations...)
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidPopulation) {
				t.Errorf("err = %v, want ErrInvalidPopulation", err)
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestParseRoleRoundTrip(t *testing.T) {
	for r := RoleBauble; r <= RolePhoto; r++ {
		got, err := ParseRole(r.String())
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", r.String(), err)
		}
		if got != r {
			t.Errorf("ParseRole(%q) = %v, want %v", r.String(), got, r)
		}
	}
}
