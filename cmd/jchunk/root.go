// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"github.com/creachadair/jchunk/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newRootCmd constructs the command, reading environment settings with
// lookupEnv.
func newRootCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "jchunk [flags] [file ...]",
		Short: "Parse streams of JSON values",
		Long: `Parse streams of concatenated JSON values and print one value per line.

Each input is parsed independently, and several inputs may be parsed
concurrently. Syntax errors are logged, and the parser resumes with the next
value. The command fails if any input contained errors.

Settings are read from the --config file (JSON with comments), then from
JCHUNK_* environment variables, then from flags.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), configPath, lookupEnv)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	def := config.Default()
	fs := cmd.Flags()
	fs.StringVarP(&configPath, "config", "c", "", "Configuration file (HuJSON)")
	fs.Int("chunk-size", def.ChunkSize, "Read input in chunks of this many bytes")
	fs.BoolP("single", "s", def.SingleValue, "Require exactly one value per input")
	fs.String("decoder", def.Decoder, `Value decoder ("iter" or "std")`)
	fs.IntP("workers", "j", def.Workers, "Number of inputs to parse concurrently")
	fs.String("log-level", def.LogLevel, `Log level ("debug", "info", "warn", "error", "none")`)
	fs.Bool("metrics", def.Metrics, "Log parser metrics at exit")
	fs.BoolP("verbatim", "v", def.Verbatim, "Print the source text of values rather than re-encoding them")
	return cmd
}

// loadConfig assembles settings from the config file at path (if any), the
// environment, and the flags that were explicitly set, in that order.
func loadConfig(fs *pflag.FlagSet, path string, lookupEnv func(string) (string, bool)) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return cfg, err
	}

	var err error
	set := func(name string, apply func(string) error) {
		if err == nil && fs.Changed(name) {
			err = apply(name)
		}
	}
	set("chunk-size", func(n string) (err error) { cfg.ChunkSize, err = fs.GetInt(n); return })
	set("single", func(n string) (err error) { cfg.SingleValue, err = fs.GetBool(n); return })
	set("decoder", func(n string) (err error) { cfg.Decoder, err = fs.GetString(n); return })
	set("workers", func(n string) (err error) { cfg.Workers, err = fs.GetInt(n); return })
	set("log-level", func(n string) (err error) { cfg.LogLevel, err = fs.GetString(n); return })
	set("metrics", func(n string) (err error) { cfg.Metrics, err = fs.GetBool(n); return })
	set("verbatim", func(n string) (err error) { cfg.Verbatim, err = fs.GetBool(n); return })
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
