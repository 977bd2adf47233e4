package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL     string `yaml:"ttl"`
		Length  int    `yaml:"length"`
		Mode    string `yaml:"mode"`
		Content string `yaml:"content"`
	} `yaml:"quiz"`
	Backend struct {
		BaseURL       string `yaml:"baseUrl"`
		Timeout       string `yaml:"timeout"`
		RetryAttempts int    `yaml:"retryAttempts"`
		RetryDelay    string `yaml:"retryDelay"`
		APIKey        string `yaml:"apiKey"`
		AuthToken     string `yaml:"authToken"`
	} `yaml:"backend"`
}

const (
	ModeLocal  = "local"
	ModeRemote = "remote"

	DefaultLength        = 10
	DefaultContent       = "physics-1"
	DefaultRetryAttempts = 3
)

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Quiz.Length <= 0 {
		c.Quiz.Length = DefaultLength
	}
	if c.Quiz.Mode == "" {
		c.Quiz.Mode = ModeLocal
	}
	if c.Quiz.Content == "" {
		c.Quiz.Content = DefaultContent
	}
	if c.Backend.RetryAttempts <= 0 {
		c.Backend.RetryAttempts = DefaultRetryAttempts
	}
}

// Validate checks the combinations that cannot work at runtime.
func (c Config) Validate() error {
	switch c.Quiz.Mode {
	case ModeLocal:
	case ModeRemote:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("quiz.mode %q requires backend.baseUrl", c.Quiz.Mode)
		}
	default:
		return fmt.Errorf("unknown quiz.mode %q", c.Quiz.Mode)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
