package acf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ModelName != DefaultModelName {
		t.Errorf("ModelName = %q, want %q", cfg.ModelName, DefaultModelName)
	}
	if cfg.MassRatio != LbToKg || cfg.LengthRatio != FtToM {
		t.Errorf("unit ratios = %g/%g, want %g/%g", cfg.MassRatio, cfg.LengthRatio, LbToKg, FtToM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := writeTempConfig(t, "modelName: quadcopter\nminBoxDim: 0.1\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ModelName != "quadcopter" {
		t.Errorf("ModelName = %q, want quadcopter", cfg.ModelName)
	}
	if cfg.MinBoxDim != 0.1 {
		t.Errorf("MinBoxDim = %g, want 0.1", cfg.MinBoxDim)
	}
	// Untouched fields keep their defaults.
	if cfg.MassRatio != LbToKg || cfg.DefaultMass != DefaultMass {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfigMQTTSection(t *testing.T) {
	path := writeTempConfig(t, `
mqtt:
  broker: tcp://broker.example:1883
  subscribeTopic: fleet/aircraft/+
  username: converter
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://broker.example:1883" {
		t.Errorf("Broker = %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.SubscribeTopic != "fleet/aircraft/+" {
		t.Errorf("SubscribeTopic = %q", cfg.MQTT.SubscribeTopic)
	}
	if cfg.MQTT.Username != "converter" {
		t.Errorf("Username = %q", cfg.MQTT.Username)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want a not-found message", err)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "modelName: [unterminated\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model name", func(c *Config) { c.ModelName = "" }},
		{"zero mass ratio", func(c *Config) { c.MassRatio = 0 }},
		{"negative length ratio", func(c *Config) { c.LengthRatio = -1 }},
		{"zero min box dim", func(c *Config) { c.MinBoxDim = 0 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -0.01 }},
		{"zero default mass", func(c *Config) { c.DefaultMass = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeTempConfig(t, "minBoxDim: -5\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation to reject a negative minBoxDim")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.ModelName = "saved_craft"
	cfg.MQTT.Broker = "tcp://localhost:1883"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.ModelName != "saved_craft" || loaded.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
