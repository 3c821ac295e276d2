// Package config loads the settings of a generator run from YAML.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	kyaml "sigs.k8s.io/yaml"
)

// DefaultPath is the configuration file used with --default.
const DefaultPath = "/etc/ncgen/default.yaml"

// Defaults applied by Init to unset fields.
const (
	DefaultOutputDir    = "."
	DefaultLogLevel     = "info"
	DefaultAuthor       = "ansible_team"
	DefaultVersionAdded = "2.6"
	DefaultHosts        = "ne_test"
)

// Config is the settings of one run.
type Config struct {
	YangDir      string `json:"yangDir,omitempty"`
	XMLDir       string `json:"xmlDir,omitempty"`
	ScriptDir    string `json:"scriptDir,omitempty"`
	LogDir       string `json:"logDir,omitempty"`
	OutputDir    string `json:"outputDir,omitempty"`
	LogLevel     string `json:"logLevel,omitempty"`
	Template     string `json:"template,omitempty"`
	Author       string `json:"author,omitempty"`
	VersionAdded string `json:"versionAdded,omitempty"`
	Hosts        string `json:"hosts,omitempty"`
}

// Load reads the configuration file at path. Unknown fields are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config %s", path)
	}

	cfg := &Config{}
	if err := kyaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config %s", path)
	}
	return cfg.Init(), nil
}

// Init fills unset fields with their defaults.
func (cfg *Config) Init() *Config {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Author == "" {
		cfg.Author = DefaultAuthor
	}
	if cfg.VersionAdded == "" {
		cfg.VersionAdded = DefaultVersionAdded
	}
	if cfg.Hosts == "" {
		cfg.Hosts = DefaultHosts
	}
	return cfg
}

// Merge overrides cfg with every non-empty field of o.
func (cfg *Config) Merge(o Config) *Config {
	for dst, src := range map[*string]string{
		&cfg.YangDir:      o.YangDir,
		&cfg.XMLDir:       o.XMLDir,
		&cfg.ScriptDir:    o.ScriptDir,
		&cfg.LogDir:       o.LogDir,
		&cfg.OutputDir:    o.OutputDir,
		&cfg.LogLevel:     o.LogLevel,
		&cfg.Template:     o.Template,
		&cfg.Author:       o.Author,
		&cfg.VersionAdded: o.VersionAdded,
		&cfg.Hosts:        o.Hosts,
	} {
		if src != "" {
			*dst = src
		}
	}
	return cfg
}

// Validate checks the directories a run needs and creates the output
// directory. Unset fields are defaulted first.
func (cfg *Config) Validate() error {
	cfg.Init()
	for _, d := range []struct{ name, path string }{
		{"yangDir", cfg.YangDir},
		{"xmlDir", cfg.XMLDir},
		{"logDir", cfg.LogDir},
	} {
		if d.path == "" {
			return errors.Errorf("config: %s is required", d.name)
		}
		if err := isDir(d.path); err != nil {
			return errors.Wrapf(err, "config: %s", d.name)
		}
	}
	if cfg.ScriptDir != "" {
		if err := isDir(cfg.ScriptDir); err != nil {
			return errors.Wrap(err, "config: scriptDir")
		}
	}
	if cfg.Template != "" {
		if _, err := os.Stat(cfg.Template); err != nil {
			return errors.Wrap(err, "config: template")
		}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.Errorf("config: unknown logLevel %q", cfg.LogLevel)
	}
	return errors.Wrap(os.MkdirAll(cfg.OutputDir, 0o755), "config: outputDir")
}

func isDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return errors.Errorf("%s is not a directory", path)
	}
	return nil
}
