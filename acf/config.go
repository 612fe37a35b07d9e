package acf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values for every tunable constant. All of them can be overridden
// via the YAML config file.
const (
	DefaultModelName     = "converted_aircraft"
	DefaultMinBoxDim     = 0.05   // meters; floors collision boxes away from zero thickness
	DefaultEpsilon       = 0.01   // feet; degenerate-part threshold on the two dominant axes
	DefaultMass          = 1.0    // kg; placeholder when no mass key resolves
	DefaultInertiaFactor = 0.05   // placeholder body inertia = mass * factor
	DefaultRotorInertia  = 0.0001 // keeps rotor links from spinning up unbounded
	DefaultRotorMass     = 0.05   // kg per rotor link
)

// Config is the full configuration for a conversion run.
type Config struct {
	ModelName     string  `yaml:"modelName,omitempty"`
	MassRatio     float64 `yaml:"massRatio,omitempty"`     // source mass unit -> kg
	LengthRatio   float64 `yaml:"lengthRatio,omitempty"`   // source length unit -> m
	MinBoxDim     float64 `yaml:"minBoxDim,omitempty"`     // meters
	Epsilon       float64 `yaml:"epsilon,omitempty"`       // source length units
	DefaultMass   float64 `yaml:"defaultMass,omitempty"`   // kg
	InertiaFactor float64 `yaml:"inertiaFactor,omitempty"`
	RotorInertia  float64 `yaml:"rotorInertia,omitempty"`

	MQTT MQTTConfig `yaml:"mqtt,omitempty"`
}

// MQTTConfig holds broker settings for service mode.
type MQTTConfig struct {
	Broker         string `yaml:"broker,omitempty"`
	SubscribeTopic string `yaml:"subscribeTopic,omitempty"`
	PublishPrefix  string `yaml:"publishPrefix,omitempty"`
	ClientID       string `yaml:"clientId,omitempty"`
	Username       string `yaml:"username,omitempty"`
	Password       string `yaml:"password,omitempty"`
}

// DefaultConfig returns a config with every field at its default.
func DefaultConfig() *Config {
	return &Config{
		ModelName:     DefaultModelName,
		MassRatio:     LbToKg,
		LengthRatio:   FtToM,
		MinBoxDim:     DefaultMinBoxDim,
		Epsilon:       DefaultEpsilon,
		DefaultMass:   DefaultMass,
		InertiaFactor: DefaultInertiaFactor,
		RotorInertia:  DefaultRotorInertia,
	}
}

// Units returns the conversion ratios configured for this run.
func (c *Config) Units() Units {
	return Units{Mass: c.MassRatio, Length: c.LengthRatio}
}

// LoadConfig loads configuration from a YAML file. Missing fields keep their
// defaults; a missing file is an error so typos in -config are not silently
// ignored.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects configurations that would produce degenerate geometry.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("modelName must not be empty")
	}
	if c.MassRatio <= 0 {
		return fmt.Errorf("massRatio must be positive, got %g", c.MassRatio)
	}
	if c.LengthRatio <= 0 {
		return fmt.Errorf("lengthRatio must be positive, got %g", c.LengthRatio)
	}
	if c.MinBoxDim <= 0 {
		return fmt.Errorf("minBoxDim must be positive, got %g", c.MinBoxDim)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative, got %g", c.Epsilon)
	}
	if c.DefaultMass <= 0 {
		return fmt.Errorf("defaultMass must be positive, got %g", c.DefaultMass)
	}
	return nil
}

// SaveConfig writes the configuration to a YAML file.
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
