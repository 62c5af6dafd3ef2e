// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the binding
// compiler and sessions, and functions for loading it from
// TOML, YAML, and JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imdario/mergo"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cogentcore.org/xson/base/logx"
)

// DefaultTimeLayout is the sortable layout used to convert between
// strings and [time.Time] values in bindings.
const DefaultTimeLayout = "2006-01-02 15:04:05Z"

// Config is the configuration of the binding compiler and sessions.
type Config struct {

	// StrictRebind makes binding a slot to a backing type that is
	// incompatible with the type its accessor was compiled for an error,
	// instead of a warning followed by recompilation.
	StrictRebind bool `toml:"strict-rebind" yaml:"strict-rebind" json:"strictRebind"`

	// StrictBinding makes a bound path that does not resolve to any member
	// of the backing type an error, instead of marking the slot as verified
	// unbound for that type.
	StrictBinding bool `toml:"strict-binding" yaml:"strict-binding" json:"strictBinding"`

	// TimeLayout is the layout used to convert between strings and times.
	TimeLayout string `toml:"time-layout" yaml:"time-layout" json:"timeLayout"`

	// LogLevel is the name of the minimum level of log messages to show
	// (debug, info, warn, or error).
	LogLevel string `toml:"log-level" yaml:"log-level" json:"logLevel"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		TimeLayout: DefaultTimeLayout,
		LogLevel:   "info",
	}
}

// Open loads the configuration from the given file, choosing the format
// from the file extension (.toml, .yaml, .yml, or .json). A leading ~ in
// the file name is expanded to the home directory. Fields that are not set
// in the file keep their default values.
func Open(filename string) (*Config, error) {
	filename, err := homedir.Expand(filename)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(b, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("config.Open %q: %w", filename, err)
	}
	return cfg, nil
}

// Parse loads the configuration from the given bytes in the format
// named by the given file extension. Unset fields keep their defaults.
func Parse(b []byte, ext string) (*Config, error) {
	cfg := &Config{}
	var err error
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		err = toml.Unmarshal(b, cfg)
	case "yaml", "yml":
		err = yaml.Unmarshal(b, cfg)
	case "json":
		err = json.Unmarshal(b, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults sets the fields that are not set to their default values.
func (c *Config) SetDefaults() error {
	return mergo.Merge(c, Default())
}

// Apply applies the process-wide parts of the configuration,
// which is currently the log level.
func (c *Config) Apply() error {
	return logx.SetLevel(c.LogLevel)
}
