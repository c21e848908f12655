package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/linkback/internal/host"
)

// Default returns the scaffold configuration for an application id,
// mirroring the schema defaults.
func Default(applicationID string) *Config {
	return &Config{
		ApplicationID: applicationID,
		BaseURL:       host.DefaultBaseURL,
		StorePath:     "linkback.db",
		SourceTag:     "linkback",
		NoLinkMessage: "No pending attribution link",
	}
}

// Write marshals cfg to YAML at path. Refuses to overwrite an
// existing file.
func Write(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return &ConfigError{Code: ErrCodeInvalid, Message: fmt.Sprintf("config file already exists: %s", path)}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return &ConfigError{Code: ErrCodeInvalid, Message: "marshalling config", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ConfigError{Code: ErrCodeInvalid, Message: fmt.Sprintf("writing config: %s", path), Err: err}
	}
	return nil
}
