package config

import (
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvDBDSN      = "OVALEDIT_DB_DSN"
	EnvListenAddr = "OVALEDIT_LISTEN_ADDR"
)

type APIKey struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
	Role string `yaml:"role"`
}

type SessionConfig struct {
	MaxOpen int `yaml:"max_open"`
}

type Config struct {
	ListenAddr     string        `yaml:"listen_addr"`
	DBDSN          string        `yaml:"db_dsn"`
	APIKeys        []APIKey      `yaml:"api_keys"`
	IDPrefix       string        `yaml:"id_prefix"`
	SchemaVersion  string        `yaml:"schema_version"`
	ProductName    string        `yaml:"product_name"`
	ProductVersion string        `yaml:"product_version"`
	Sessions       SessionConfig `yaml:"sessions"`
	ExtensionsPath string        `yaml:"extensions_path"`
}

// Load reads the YAML file at path. A missing file yields the defaults, so
// the daemon can run from environment variables alone.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDBDSN)); v != "" {
		c.DBDSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvListenAddr)); v != "" {
		c.ListenAddr = v
	}
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.IDPrefix == "" {
		c.IDPrefix = "oval-editor"
	}
	if c.SchemaVersion == "" {
		c.SchemaVersion = "5.11"
	}
	if c.ProductName == "" {
		c.ProductName = "oval-editor"
	}
	if c.Sessions.MaxOpen <= 0 {
		c.Sessions.MaxOpen = 64
	}
}
