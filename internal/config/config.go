// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package config defines the settings of the jchunk command-line tool.
//
// Settings are taken from a configuration file in HuJSON format (JSON with
// comments and trailing commas), then from JCHUNK_* environment variables,
// then from command-line flags, each overriding the one before.
package config

import (
	"os"
	"strconv"

	"github.com/creachadair/jchunk"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// Config holds the settings of the tool.
type Config struct {
	ChunkSize   int    `json:"chunk_size"`   // bytes per read
	SingleValue bool   `json:"single_value"` // require exactly one value per input
	Decoder     string `json:"decoder"`      // "iter" or "std"
	Workers     int    `json:"workers"`      // inputs processed concurrently
	LogLevel    string `json:"log_level"`    // "debug", "info", "warn", "error", or "none"
	Metrics     bool   `json:"metrics"`      // log parser metrics at exit
	Verbatim    bool   `json:"verbatim"`     // print source text rather than re-encoding
}

// Default returns the default settings.
func Default() Config {
	return Config{
		ChunkSize: 32 << 10,
		Decoder:   "iter",
		Workers:   4,
		LogLevel:  "info",
	}
}

// MaxChunkSize is the largest chunk size accepted by Validate.
const MaxChunkSize = 64 << 20

var strict = jsoniter.Config{
	EscapeHTML:            true,
	SortMapKeys:           true,
	DisallowUnknownFields: true,
}.Froze()

// Load reads settings from the file at path. Fields not mentioned in the
// file keep their default values. Unknown fields are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return cfg, errors.Wrapf(err, "parsing config %q", path)
	}
	if err := strict.Unmarshal(std, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decoding config %q", path)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables, using lookup to
// find them (typically os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	vars := []struct {
		name string
		set  func(string) error
	}{
		{"JCHUNK_CHUNK_SIZE", intVar(&c.ChunkSize)},
		{"JCHUNK_SINGLE", boolVar(&c.SingleValue)},
		{"JCHUNK_DECODER", stringVar(&c.Decoder)},
		{"JCHUNK_WORKERS", intVar(&c.Workers)},
		{"JCHUNK_LOG_LEVEL", stringVar(&c.LogLevel)},
		{"JCHUNK_METRICS", boolVar(&c.Metrics)},
	}
	for _, v := range vars {
		s, ok := lookup(v.name)
		if !ok {
			continue
		}
		if err := v.set(s); err != nil {
			return errors.Wrapf(err, "invalid %s", v.name)
		}
	}
	return nil
}

func intVar(p *int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err == nil {
			*p = v
		}
		return err
	}
}

func boolVar(p *bool) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseBool(s)
		if err == nil {
			*p = v
		}
		return err
	}
}

func stringVar(p *string) func(string) error {
	return func(s string) error { *p = s; return nil }
}

var decoders = map[string]jchunk.Decoder{
	"iter": jchunk.IterDecoder,
	"std":  jchunk.StdDecoder,
}

var levels = map[string]level.Option{
	"debug": level.AllowDebug(),
	"info":  level.AllowInfo(),
	"warn":  level.AllowWarn(),
	"error": level.AllowError(),
	"none":  level.AllowNone(),
}

// Validate reports an error if c contains invalid settings.
func (c Config) Validate() error {
	switch {
	case c.ChunkSize <= 0 || c.ChunkSize > MaxChunkSize:
		return errors.Errorf("chunk size %d out of range (1..%d)", c.ChunkSize, MaxChunkSize)
	case c.Workers <= 0:
		return errors.Errorf("invalid worker count %d", c.Workers)
	case decoders[c.Decoder] == nil:
		return errors.Errorf("unknown decoder %q", c.Decoder)
	case levels[c.LogLevel] == nil:
		return errors.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// LevelFilter returns a go-kit level filter for the configured log level.
// It allows everything if the level is not valid.
func (c Config) LevelFilter() level.Option {
	if opt, ok := levels[c.LogLevel]; ok {
		return opt
	}
	return level.AllowAll()
}

// ParserOptions returns parser options reflecting c, logging to logger and
// recording to m, either of which may be nil.
func (c Config) ParserOptions(logger log.Logger, m *jchunk.Metrics) *jchunk.Options {
	return &jchunk.Options{
		SingleValue: c.SingleValue,
		Decoder:     decoders[c.Decoder],
		Logger:      logger,
		Metrics:     m,
	}
}
