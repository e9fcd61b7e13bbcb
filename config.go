package grove

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// PopulationSpec configures one role's population.
type PopulationSpec struct {
	Role    string `toml:"role"`
	Count   int    `toml:"count"`
	Palette int    `toml:"palette"`
}

// Config is the external configuration for a formation scene. Population
// parameters are supplied here; the core never invents them.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// Seed for chaos placement randomness. Zero means derive from the
	// clock at startup.
	Seed int64 `toml:"seed"`

	Populations []PopulationSpec `toml:"population"`
}

// DefaultConfig returns the stock six-role scene.
func DefaultConfig() Config {
	return Config{
		Title:  "grove",
		Width:  960,
		Height: 640,
		Populations: []PopulationSpec{
			{Role: "bauble", Count: 40, Palette: 6},
			{Role: "light", Count: 60, Palette: 4},
			{Role: "star", Count: 12, Palette: 3},
			{Role: "gift", Count: 18, Palette: 5},
			{Role: "ribbon", Count: 24, Palette: 4},
			{Role: "photo", Count: 10, Palette: 1},
		},
	}
}

// LoadConfig reads a TOML config file, applies GROVE_* environment
// overrides, and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv applies environment overrides: GROVE_SEED.
func (c *Config) applyEnv() {
	if s := os.Getenv("GROVE_SEED"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			c.Seed = v
		}
	}
}

// Validate rejects invalid population parameters. This is the one hard
// failure in the system; everything downstream may assume valid parameters.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", ErrInvalidPopulation, c.Width, c.Height)
	}
	if len(c.Populations) == 0 {
		return fmt.Errorf("%w: no populations", ErrInvalidPopulation)
	}
	var seen [NumRoles]bool
	for _, p := range c.Populations {
		role, err := ParseRole(p.Role)
		if err != nil {
			return err
		}
		// One population per role: the closest-object index is published
		// per population and would be ambiguous across duplicates.
		if seen[role] {
			return fmt.Errorf("%w: duplicate role %s", ErrInvalidPopulation, p.Role)
		}
		seen[role] = true
		if p.Count <= 0 {
			return fmt.Errorf("%w: role %s count %d", ErrInvalidPopulation, p.Role, p.Count)
		}
		if p.Palette <= 0 {
			return fmt.Errorf("%w: role %s palette %d", ErrInvalidPopulation, p.Role, p.Palette)
		}
	}
	return nil
}

// ParseRole maps a config role name to a Role.
func ParseRole(name string) (Role, error) {
	switch name {
	case "bauble":
		return RoleBauble, nil
	case "light":
		return RoleLight, nil
	case "star":
		return RoleStar, nil
	case "gift":
		return RoleGift, nil
	case "ribbon":
		return RoleRibbon, nil
	case "photo":
		return RolePhoto, nil
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidPopulation, name)
	}
}
