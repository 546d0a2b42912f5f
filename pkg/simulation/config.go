package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/flock"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var configSchema string

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population, fixed for the whole run
	Population int `json:"population"`
	// Seed of the random source used to place the agents, 0 picks one at startup
	Seed uint64 `json:"seed"`

	// Steering constants: a named preset, each value can be overridden
	Preset           string  `json:"preset"`
	MaxForce         float64 `json:"maxForce,omitempty"`
	MaxSpeed         float64 `json:"maxSpeed,omitempty"`
	PerceptionRadius float64 `json:"perceptionRadius,omitempty"`

	// "sequential" or "simultaneous"
	Semantics string `json:"semantics"`

	// Drivers
	TicksPerSecond    int  `json:"ticksPerSecond"`
	DisplayPerception bool `json:"displayPerception"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:     800,
		WorldHeight:    600,
		Population:     100,
		Preset:         "classic",
		Semantics:      "sequential",
		TicksPerSecond: 60,
	}
}

// World returns the wraparound bounds described by the configuration.
func (c *Config) World() flock.World {
	return flock.World{Width: c.WorldWidth, Height: c.WorldHeight}
}

// Params resolves the preset and applies the explicit overrides on top of it.
func (c *Config) Params() (flock.Params, error) {
	p, err := flock.PresetByName(c.Preset)
	if err != nil {
		return flock.Params{}, err
	}
	if c.MaxForce != 0 {
		p.MaxForce = c.MaxForce
	}
	if c.MaxSpeed != 0 {
		p.MaxSpeed = c.MaxSpeed
	}
	if c.PerceptionRadius != 0 {
		p.PerceptionRadius = c.PerceptionRadius
	}
	return p, p.Validate()
}

// Validate checks the values the schema cannot express.
func (c *Config) Validate() error {
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		return fmt.Errorf("world must have a positive size, got %vx%v", c.WorldWidth, c.WorldHeight)
	}
	if c.Population < 0 {
		return fmt.Errorf("population cannot be negative, got %d", c.Population)
	}
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("invalid steering params: %w", err)
	}
	if _, err := flock.ParseSemantics(c.Semantics); err != nil {
		return err
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and validates it against the schema.
// Keys missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig validates raw JSON against the schema and decodes it over DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
