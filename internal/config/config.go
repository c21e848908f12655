// Package config loads client configuration from a YAML file validated
// against an embedded CUE schema: the YAML is extracted into CUE,
// unified with #Config, checked for concreteness, then decoded. All
// defaults live in the schema.
//
// Configuration problems are fatal and synchronous: a ConfigError from
// Load aborts setup, it is never retried or degraded.
package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"golang.org/x/text/language"

	"github.com/roach88/linkback/internal/host"
)

//go:embed schema.cue
var schemaSrc string

// Error codes for configuration failures.
const (
	ErrCodeNotFound = "CONFIG_NOT_FOUND"
	ErrCodeParse    = "CONFIG_PARSE"
	ErrCodeInvalid  = "CONFIG_INVALID"
)

// ConfigError represents a fatal configuration problem.
type ConfigError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// HostConfig describes the host application and device, as far as the
// integrator cares to declare them. Everything is optional; undeclared
// values are omitted from signals and the user agent degrades.
type HostConfig struct {
	OSVersion          string  `json:"os_version" yaml:"os_version"`
	DeviceManufacturer string  `json:"device_manufacturer" yaml:"device_manufacturer"`
	DeviceModel        string  `json:"device_model" yaml:"device_model"`
	PackageName        string  `json:"package_name" yaml:"package_name"`
	AppVersion         string  `json:"app_version" yaml:"app_version"`
	AppBuild           int     `json:"app_build" yaml:"app_build"`
	ScreenWidth        int     `json:"screen_width" yaml:"screen_width"`
	ScreenHeight       int     `json:"screen_height" yaml:"screen_height"`
	ScreenDensity      float64 `json:"screen_density" yaml:"screen_density"`
	Locale             string  `json:"locale" yaml:"locale"`
	TimeZone           string  `json:"timezone" yaml:"timezone"`
}

// LoggingConfig controls partner-visible logging.
type LoggingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Config is the fully-resolved client configuration.
type Config struct {
	ApplicationID string        `json:"application_id" yaml:"application_id"`
	BaseURL       string        `json:"base_url" yaml:"base_url"`
	StorePath     string        `json:"store_path" yaml:"store_path"`
	SourceTag     string        `json:"source_tag" yaml:"source_tag"`
	NoLinkMessage string        `json:"no_link_message" yaml:"no_link_message"`
	Logging       LoggingConfig `json:"logging" yaml:"logging"`
	Host          HostConfig    `json:"host" yaml:"host"`
}

// Load reads, validates and resolves the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &ConfigError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &ConfigError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading config: %s", path), Err: err}
	}
	return Parse(path, data)
}

// Parse validates raw YAML config bytes. The filename is used for
// error positions only.
func Parse(filename string, data []byte) (*Config, error) {
	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return nil, &ConfigError{Code: ErrCodeParse, Message: "invalid YAML", Err: err}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, &ConfigError{Code: ErrCodeParse, Message: "invalid embedded schema", Err: err}
	}

	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return nil, &ConfigError{Code: ErrCodeParse, Message: "building config value", Err: err}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return nil, &ConfigError{Code: ErrCodeInvalid, Message: "config does not satisfy schema", Err: err}
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, &ConfigError{Code: ErrCodeInvalid, Message: "decoding config", Err: err}
	}

	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ConfigError{Code: ErrCodeInvalid, Message: fmt.Sprintf("base_url %q is not an http(s) URL", cfg.BaseURL)}
	}
	return &cfg, nil
}

// HostInfo derives the host description from this configuration.
// An unparsable locale degrades to the environment-detected one.
func (c *Config) HostInfo() *host.Info {
	info := host.Info{
		ApplicationID:      c.ApplicationID,
		BaseURL:            c.BaseURL,
		OSVersion:          c.Host.OSVersion,
		DeviceManufacturer: c.Host.DeviceManufacturer,
		DeviceModel:        c.Host.DeviceModel,
		PackageName:        c.Host.PackageName,
		AppVersion:         c.Host.AppVersion,
		AppBuild:           c.Host.AppBuild,
		ScreenWidth:        c.Host.ScreenWidth,
		ScreenHeight:       c.Host.ScreenHeight,
		ScreenDensity:      c.Host.ScreenDensity,
		TimeZone:           c.Host.TimeZone,
	}
	if c.Host.Locale != "" {
		if tag, err := language.Parse(c.Host.Locale); err == nil {
			info.Locale = tag
		}
	}
	return host.New(info)
}
