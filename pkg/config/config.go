// Package config decodes the viper-backed configuration shared by the CLI
// commands. Keys are bound to flags and BIDS_HUB_* environment variables in
// cmd; this package only unmarshals and validates the result.
package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
)

// Validatable is any config section that can check itself after decoding.
type Validatable interface {
	Validate() error
}

// Config is the root configuration structure.
type Config struct {
	Hub HubConfig `mapstructure:"hub" yaml:"hub"`
}

func (c Config) Validate() error {
	return c.Hub.Validate()
}

// HubConfig locates the remote copies of the flattened datasets.
type HubConfig struct {
	// Endpoint is the base URL of the dataset rows API.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Repos maps a dataset name (arc, isles24) to its remote repository ID.
	Repos map[string]string `mapstructure:"repos" yaml:"repos"`
	// Split is the dataset split to verify against.
	Split string `mapstructure:"split" yaml:"split"`
}

func (c HubConfig) Validate() error {
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("hub endpoint %q is not an absolute URL", c.Endpoint)
		}
	}
	return nil
}

// Repo returns the remote repository ID configured for a dataset.
func (c HubConfig) Repo(dataset string) (string, error) {
	repo, ok := c.Repos[dataset]
	if !ok || repo == "" {
		return "", fmt.Errorf("no hub repository configured for dataset %q", dataset)
	}
	return repo, nil
}

// Load decodes the current viper state into a config type and validates it.
func Load[T Validatable]() (T, error) {
	var out T
	if err := viper.Unmarshal(&out); err != nil {
		return out, fmt.Errorf("unable to decode config, %w", err)
	}
	if err := out.Validate(); err != nil {
		return out, fmt.Errorf("invalid config, %w", err)
	}
	return out, nil
}
