// Package config loads the docpipe configuration from an optional YAML file and DOCPIPE_ environment variables.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/askiada/go-docpipeline/pkg/pipeline"
)

// EnvPrefix prefixes the environment variables read by Load. A double underscore separates keys,
// DOCPIPE_LOG__LEVEL sets log.level.
const EnvPrefix = "DOCPIPE_"

type Config struct {
	Pipelines   []string     `koanf:"-"`
	Log         LogConfig    `koanf:"log"`
	Concurrency int          `koanf:"concurrency"`
	Output      OutputConfig `koanf:"output"`
	Draw        DrawConfig   `koanf:"draw"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type OutputConfig struct {
	Dir string `koanf:"dir"`
}

type DrawConfig struct {
	File string `koanf:"file"`
}

var defaults = map[string]any{
	"pipelines":   pipeline.DefaultPipelineName,
	"log.level":   "info",
	"concurrency": 1,
	"output.dir":  ".",
	"draw.file":   "",
}

// Load reads path, when set, then the environment. A missing file is an error only when path is set.
// It returns the raw koanf instance too, pipelines read their own keys from it.
func Load(path string) (*Config, *koanf.Koanf, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, nil, errors.Wrapf(err, "unable to load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, nil, errors.Wrap(err, "unable to load environment")
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, nil, errors.Wrapf(err, "unable to set default %s", key)
			}
		}
	}

	cfg, err := Unmarshal(k)
	if err != nil {
		return nil, nil, err
	}

	return cfg, k, nil
}

// Unmarshal builds the typed configuration from k.
func Unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal config")
	}

	cfg.Pipelines = pipeline.PipelineNames(k)

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	return &cfg, nil
}

// LogLevel parses the configured level, unknown values fall back to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a text logger writing to stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel()}))
}
