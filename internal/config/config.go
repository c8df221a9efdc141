// Package config loads the client configuration from a YAML file,
// overlaying it on built-in defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig `yaml:"server"`
	Player  PlayerConfig `yaml:"player"`
	Round   RoundConfig  `yaml:"round"`
	LogFile string       `yaml:"log_file"`
}

type ServerConfig struct {
	URL string `yaml:"url"`
}

type PlayerConfig struct {
	DisplayName string `yaml:"display_name"`
	RoomCode    string `yaml:"room_code"`
}

type RoundConfig struct {
	// DefaultSeconds is the advisory countdown length used until the
	// server supplies an authoritative remaining time.
	DefaultSeconds int `yaml:"default_seconds"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "ws://127.0.0.1:8080/ws",
		},
		Round: RoundConfig{
			DefaultSeconds: 80,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path means
// defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Round.DefaultSeconds <= 0 {
		cfg.Round.DefaultSeconds = 80
	}
	return cfg, nil
}
