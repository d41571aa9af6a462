// Package config loads the gql command's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by all commands. Command-line flags
// override file values.
type Config struct {
	// Format is the output format: json, jsonl, csv or table.
	Format string `yaml:"format"`

	// LogLevel is a zerolog level name (debug, info, warn, ...).
	LogLevel string `yaml:"log_level"`

	// Timezone is the IANA zone date() and datetime() build values in.
	Timezone string `yaml:"timezone"`

	// Placeholder is the SQL bind parameter style: question or dollar.
	Placeholder string `yaml:"placeholder"`

	// DataDir holds one <Kind>.parquet file per kind for the run command.
	DataDir string `yaml:"data_dir"`

	// KeyColumn names the parquet column holding entity IDs or names.
	// Empty means entities are numbered in file order.
	KeyColumn string `yaml:"key_column"`
}

var (
	validFormats      = []string{"json", "jsonl", "csv", "table"}
	validPlaceholders = []string{"question", "dollar"}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:      "json",
		LogLevel:    "warn",
		Timezone:    "UTC",
		Placeholder: "question",
		DataDir:     ".",
		KeyColumn:   "id",
	}
}

// Load reads a YAML configuration file over the defaults. Unknown keys
// are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings and the time zone.
func (c *Config) Validate() error {
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, validFormats)
	}
	if !slices.Contains(validPlaceholders, c.Placeholder) {
		return fmt.Errorf("invalid placeholder %q: must be one of %v", c.Placeholder, validPlaceholders)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
