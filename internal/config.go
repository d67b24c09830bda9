package internal

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultKind     = "issue"
	DefaultPageSize = 20
)

var ErrUnknownConfigKey = errors.New("unknown config key")

type DefaultsConfig struct {
	Kind string `yaml:"kind"`
}

type Config struct {
	Ref             string         `yaml:"ref"`
	Author          Signature      `yaml:"author"`
	Defaults        DefaultsConfig `yaml:"defaults"`
	PageSize        int            `yaml:"page_size"`
	ReadConcurrency int            `yaml:"read_concurrency"`
}

func DefaultConfig() *Config {
	return &Config{
		Ref: DefaultRef,
		Author: Signature{
			Name:  DefaultAuthor,
			Email: DefaultEmail,
		},
		Defaults: DefaultsConfig{
			Kind: DefaultKind,
		},
		PageSize:        DefaultPageSize,
		ReadConcurrency: DefaultReadConcurrency,
	}
}

// LoadConfig reads the config of scope. Missing files and missing keys fall
// back to DefaultConfig.
func LoadConfig(scope Scope) (*Config, error) {
	path := scope.ConfigPath()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func SaveConfig(scope Scope, cfg *Config) error {
	path := scope.ConfigPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// TrackerOptions translates the config into tracker options.
func (c *Config) TrackerOptions() []TrackerOption {
	return []TrackerOption{
		WithRef(c.Ref),
		WithAuthor(c.Author),
		WithReadConcurrency(c.ReadConcurrency),
	}
}

type configKey struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

var configKeys = map[string]configKey{
	"ref": {
		get: func(c *Config) string { return c.Ref },
		set: func(c *Config, v string) error { c.Ref = v; return nil },
	},
	"author.name": {
		get: func(c *Config) string { return c.Author.Name },
		set: func(c *Config, v string) error { c.Author.Name = v; return nil },
	},
	"author.email": {
		get: func(c *Config) string { return c.Author.Email },
		set: func(c *Config, v string) error { c.Author.Email = v; return nil },
	},
	"defaults.kind": {
		get: func(c *Config) string { return c.Defaults.Kind },
		set: func(c *Config, v string) error { c.Defaults.Kind = v; return nil },
	},
	"page_size": {
		get: func(c *Config) string { return strconv.Itoa(c.PageSize) },
		set: func(c *Config, v string) error { return setPositive(&c.PageSize, v) },
	},
	"read_concurrency": {
		get: func(c *Config) string { return strconv.Itoa(c.ReadConcurrency) },
		set: func(c *Config, v string) error { return setPositive(&c.ReadConcurrency, v) },
	},
}

// ConfigKeys lists the keys accepted by Get and Set.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) Get(key string) (string, error) {
	k, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}
	return k.get(c), nil
}

func (c *Config) Set(key, value string) error {
	k, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}
	if err := k.set(c, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func setPositive(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("must be a strictly positive number, got %d", n)
	}
	*dst = n
	return nil
}
