package config

import "os"

// Environment variables read by this package.
const (
	EnvRootLevel = "HLOG_ROOT_LEVEL"
	EnvDisable   = "HLOG_DISABLE"
	EnvConfig    = "HLOG_CONFIG"
)

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvRootLevel); v != "" {
		cfg.Root.Level = v
	}
	if v := os.Getenv(EnvDisable); v != "" {
		cfg.Disable = v
	}
}

// FromEnv loads the file named by HLOG_CONFIG, or returns Default with
// environment overrides applied when it is unset.
func FromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}
	cfg := Default()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
