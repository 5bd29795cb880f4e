// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the YAML configuration of the polyshare tools.
//
// A configuration file looks like:
//
//	field: P256
//	threshold: 3
//	shares: 5
//	keyConfig:
//	  shamir:
//	    threshold: 2
//	    shares: 3
//
// Unset scalar fields take the defaults from the constants package.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GoogleCloudPlatform/polyshare/constants"
	"github.com/GoogleCloudPlatform/polyshare/finitefield"
	"github.com/GoogleCloudPlatform/polyshare/secrets"
	"sigs.k8s.io/yaml"
)

// Config is the top-level configuration.
type Config struct {
	Field     finitefield.ID `json:"field,omitempty"`
	Threshold int            `json:"threshold,omitempty"`
	Shares    int            `json:"shares,omitempty"`
	KeyConfig *KeyConfig     `json:"keyConfig,omitempty"`
}

// KeyConfig selects how a data encryption key is split. Exactly one of Shamir and NoSplit
// must be set.
type KeyConfig struct {
	Shamir  *ShamirConfig  `json:"shamir,omitempty"`
	NoSplit *NoSplitConfig `json:"noSplit,omitempty"`
}

// ShamirConfig splits the key into Shares shares, Threshold of which recover it.
type ShamirConfig struct {
	Field     finitefield.ID `json:"field,omitempty"`
	Threshold int            `json:"threshold"`
	Shares    int            `json:"shares"`
}

// NoSplitConfig keeps the key whole.
type NoSplitConfig struct{}

// DefaultPath returns the location of the configuration file in the user's configuration
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory location: %v", err)
	}
	return filepath.Join(dir, constants.DefaultConfigName), nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Field:     constants.DefaultField,
		Threshold: constants.DefaultThreshold,
		Shares:    constants.DefaultShares,
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a YAML configuration, fills in defaults and validates the result.
// Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Field == 0 {
		c.Field = constants.DefaultField
	}
	if c.Threshold == 0 {
		c.Threshold = constants.DefaultThreshold
	}
	if c.Shares == 0 {
		c.Shares = constants.DefaultShares
	}
	if c.KeyConfig != nil && c.KeyConfig.Shamir != nil && c.KeyConfig.Shamir.Field == 0 {
		c.KeyConfig.Shamir.Field = c.Field
	}
}

// Validate reports whether the configuration describes a valid secret sharing scheme.
func (c *Config) Validate() error {
	if err := validateScheme(c.Field, c.Threshold, c.Shares); err != nil {
		return err
	}
	if c.KeyConfig != nil {
		return c.KeyConfig.Validate()
	}
	return nil
}

// Validate reports whether exactly one key splitting algorithm is configured and whether it
// is valid.
func (k *KeyConfig) Validate() error {
	switch {
	case k.Shamir != nil && k.NoSplit != nil:
		return fmt.Errorf("keyConfig sets both shamir and noSplit")
	case k.Shamir != nil:
		if err := validateScheme(k.Shamir.Field, k.Shamir.Threshold, k.Shamir.Shares); err != nil {
			return fmt.Errorf("keyConfig.shamir: %w", err)
		}
		if k.Shamir.Shares > constants.MaxWireShares {
			return fmt.Errorf("keyConfig.shamir: at most %d shares are supported, got %d", constants.MaxWireShares, k.Shamir.Shares)
		}
		return nil
	case k.NoSplit != nil:
		return nil
	default:
		return fmt.Errorf("keyConfig sets no key splitting algorithm")
	}
}

func validateScheme(id finitefield.ID, threshold, shares int) error {
	if _, err := finitefield.Parse(id.String()); err != nil {
		return err
	}
	if threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", threshold)
	}
	if shares < threshold {
		return fmt.Errorf("shares (%d) must be at least the threshold (%d)", shares, threshold)
	}
	return nil
}

// Metadata returns the secret sharing metadata described by the configuration.
func (c *Config) Metadata() secrets.Metadata {
	return secrets.Metadata{
		Field:     c.Field,
		NumShares: c.Shares,
		Threshold: c.Threshold,
	}
}
