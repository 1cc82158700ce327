//
//   Copyright 2023 The original authors
//
//   Licensed under the Apache License, Version 2.0 (the "License");
//   you may not use this file except in compliance with the License.
//   You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
//

// Package config resolves generator settings from defaults, an optional
// YAML file and MEASUREMENTS_* environment variables. Command-line flags are
// applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"xpug.it/1brc-measurements/internal/logging"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig    = "MEASUREMENTS_CONFIG"
	EnvStations  = "MEASUREMENTS_STATIONS"
	EnvOutput    = "MEASUREMENTS_OUTPUT"
	EnvSeed      = "MEASUREMENTS_SEED"
	EnvProgress  = "MEASUREMENTS_PROGRESS"
	EnvLogLevel  = "MEASUREMENTS_LOG_LEVEL"
	EnvLogFormat = "MEASUREMENTS_LOG_FORMAT"
)

const (
	DefaultStations = "data/weather_stations.csv"
	DefaultOutput   = "measurements.txt"
)

// Config holds the resolved settings of a run.
type Config struct {
	Stations string        `yaml:"stations"`
	Output   string        `yaml:"output"`
	Seed     *uint64       `yaml:"seed,omitempty"`
	Progress bool          `yaml:"progress"`
	Logging  LoggingConfig `yaml:"logging"`
}

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ToLoggingConfig bridges the file settings to the logging package.
func (lc LoggingConfig) ToLoggingConfig(out io.Writer) logging.Config {
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: out,
	}
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Stations: DefaultStations,
		Output:   DefaultOutput,
		Progress: true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped when
// path is empty) and then the environment.
func Load(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// MergeFile overlays the keys present in a YAML file. Absent keys keep their
// current value.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays MEASUREMENTS_* variables.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookupEnv(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvStations); ok {
		c.Stations = v
	}
	if v, ok := get(EnvOutput); ok {
		c.Output = v
	}
	if v, ok := get(EnvSeed); ok {
		seed, err := ParseSeed(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		c.Seed = &seed
	}
	if v, ok := get(EnvProgress); ok {
		progress, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvProgress, v, err)
		}
		c.Progress = progress
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	return nil
}

// Validate rejects settings the generator cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Stations == "" {
		errs = append(errs, errors.New("stations path must not be empty"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output path must not be empty"))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (allowed: %s, %s)",
			c.Logging.Format, logging.FormatConsole, logging.FormatJSON))
	}
	return errors.Join(errs...)
}

// ParseSeed parses a decimal seed; underscores group digits.
func ParseSeed(s string) (uint64, error) {
	return strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
}
