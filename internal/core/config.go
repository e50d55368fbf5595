package core

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the client configuration stored in .comsof-validate/config.yml.
type Config struct {
	BackendURL     string   `yaml:"backend_url"`
	ValidatePath   string   `yaml:"validate_path,omitempty"`
	ExportPath     string   `yaml:"export_path,omitempty"`
	HealthPath     string   `yaml:"health_path,omitempty"`
	DefaultChecks  []string `yaml:"default_checks,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds,omitempty"`
}

// ConfigStore abstracts config persistence
type ConfigStore interface {
	Load() (Config, error)
	Save(config Config) error
	Path() string
}

// NewConfigStore creates a YAML-backed config store rooted at dir.
// Missing files load as the zero config; defaults are applied afterwards.
func NewConfigStore(dir string) ConfigStore {
	return NewYAMLStore[Config](dir, ConfigFile, true)
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.ValidatePath == "" {
		c.ValidatePath = DefaultValidatePath
	}
	if c.ExportPath == "" {
		c.ExportPath = DefaultExportPath
	}
	if c.HealthPath == "" {
		c.HealthPath = DefaultHealthPath
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 300
	}
}

// ApplyEnv overlays COMSOF_* environment variables onto the config.
// Environment wins over file values so CI can point at another backend
// without editing config.yml.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("COMSOF_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("COMSOF_VALIDATE_PATH"); v != "" {
		c.ValidatePath = v
	}
	if v := os.Getenv("COMSOF_EXPORT_PATH"); v != "" {
		c.ExportPath = v
	}
	if v := os.Getenv("COMSOF_HEALTH_PATH"); v != "" {
		c.HealthPath = v
	}
	if v := os.Getenv("COMSOF_DEFAULT_CHECKS"); v != "" {
		var checks []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				checks = append(checks, name)
			}
		}
		c.DefaultChecks = checks
	}
	if v := os.Getenv("COMSOF_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutSeconds = n
		}
	}
}

// Validate checks the config for obvious mistakes before any network call.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("backend_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url %q must be http or https", c.BackendURL)
	}
	for _, p := range []string{c.ValidatePath, c.ExportPath, c.HealthPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("endpoint path %q must start with /", p)
		}
	}
	return nil
}

// LoadConfig loads config.yml from dir (missing file is fine), then applies
// defaults and environment overrides.
func LoadConfig(dir string) (Config, error) {
	cfg, err := NewConfigStore(dir).Load()
	if err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// InitConfig writes a default config.yml under dir, creating the work
// directory and the reports directory. Refuses to overwrite an existing file.
func InitConfig(dir string) (string, error) {
	store := NewConfigStore(dir)
	if _, err := os.Stat(store.Path()); err == nil {
		return store.Path(), fmt.Errorf("%s already exists", store.Path())
	}
	if err := os.MkdirAll(filepath.Join(dir, ReportsDir), 0755); err != nil {
		return "", err
	}

	cfg := Config{}
	cfg.ApplyDefaults()
	if err := store.Save(cfg); err != nil {
		return "", err
	}
	return store.Path(), nil
}
