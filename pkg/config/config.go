// Package config loads the optional TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/familytree/config.toml, falling back
// to ~/.config/familytree/config.toml. Every key is optional:
//
//	data_file = "./data/members.json"
//
//	[graph]
//	show_age = true
//	show_occupation = false
//	format = "svg"
//	title = ""
//
//	[import]
//	parent_policy = "strict"   # or "father-first"
//
//	[cache]
//	enabled = true
//	ttl = "720h"
//
// Command-line flags take precedence over the file, and the file over the
// built-in defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/relation"
	"github.com/matzehuels/familytree/pkg/render"
)

// DefaultDataFile is the members file used when neither flag nor config
// names one.
const DefaultDataFile = "./data/members.json"

// Config is the decoded configuration.
type Config struct {
	DataFile string       `toml:"data_file"`
	Graph    GraphConfig  `toml:"graph"`
	Import   ImportConfig `toml:"import"`
	Cache    CacheConfig  `toml:"cache"`
}

// GraphConfig holds defaults for the graph command and the browser's
// regenerate action.
type GraphConfig struct {
	ShowAge        bool   `toml:"show_age"`
	ShowOccupation bool   `toml:"show_occupation"`
	Format         string `toml:"format"`
	Title          string `toml:"title"`
}

// ImportConfig holds defaults for legacy imports.
type ImportConfig struct {
	ParentPolicy string `toml:"parent_policy"`

	policy relation.Policy
}

// CacheConfig controls the rendered diagram cache.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	TTL     Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataFile: DefaultDataFile,
		Graph: GraphConfig{
			ShowAge: true,
			Format:  render.FormatSVG,
		},
		Import: ImportConfig{ParentPolicy: relation.PolicyStrict.String(), policy: relation.PolicyStrict},
		Cache:  CacheConfig{Enabled: true, TTL: Duration{30 * 24 * time.Hour}},
	}
}

// DefaultPath returns the location of the user's config file. It does not
// check that the file exists.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "familytree", "config.toml"), nil
}

// Load reads the config file at path on top of [Default]. A missing file is
// a FILE_NOT_FOUND error; use [LoadDefault] for the optional user file.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return Config{}, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "config file %s: line %d", path, perr.Position.Line)
		}
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperr.New(apperr.ErrCodeInvalidSchema, "config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, apperr.Wrap(apperr.ErrCodeInvalidSchema, err, "config file %s", path)
	}
	return cfg, nil
}

// LoadDefault loads the user's config file if it exists and returns the
// defaults otherwise. The returned path is empty when no file was read.
func LoadDefault() (Config, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}

// Validate checks the enumerated settings and rewrites them in canonical
// form: "SVG" and ".svg" become "svg", " Father-First " becomes
// "father-first". On error c is left unchanged.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return apperr.Missing("data_file")
	}
	format, err := render.ParseFormat(c.Graph.Format)
	if err != nil {
		return err
	}
	policy, err := relation.ParsePolicy(c.Import.ParentPolicy)
	if err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return apperr.Invalid("cache.ttl", nil, "cannot be negative")
	}
	c.Graph.Format = format
	c.Import.ParentPolicy = policy.String()
	c.Import.policy = policy
	return nil
}

// Policy returns the parent policy parsed by [Config.Validate], or
// [relation.PolicyStrict] for a config that was never validated.
func (c Config) Policy() relation.Policy {
	return c.Import.policy
}
