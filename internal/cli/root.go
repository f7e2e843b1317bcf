// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cli implements the shots command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gogpu/shots"
	"github.com/gogpu/shots/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd(viper.New()).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree bound to v.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "shots",
		Short: "Capture rendered frames to disk without stalling the render loop",
		Long: `shots drives a render loop and saves requested frames through a
pooled background writer. Files land in {dir}/dist/{subdir}/screenshot{N}.png.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./shots.yaml)")
	flags.String("env-file", ".env", "dotenv file loaded before reading SHOTS_* variables")
	flags.StringP("dir", "d", ".", "project directory; screenshots go under DIR/dist")
	flags.String("subdir", "", "output directory below dist")
	flags.Bool("unique", false, "append a random run id to the output directory")
	flags.String("prefix", "screenshot", "file name prefix")
	flags.String("format", "png", "image format: png, tiff or bmp")
	flags.Int("pool-size", shots.DefaultPoolSize, "number of capture buffers")
	flags.Int("write-behind", shots.DefaultWriteBehind, "buffers held back by the save worker")
	flags.Int("idle-flush", shots.DefaultIdleFlushFrames, "idle frames before the worker is flushed")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	bindFlags(v, flags, map[string]string{
		"config":                    "config",
		"env_file":                  "env-file",
		"output.dir":                "dir",
		"output.subdir":             "subdir",
		"output.unique_subdir":      "unique",
		"output.prefix":             "prefix",
		"output.format":             "format",
		"capture.pool_size":         "pool-size",
		"capture.write_behind":      "write-behind",
		"capture.idle_flush_frames": "idle-flush",
		"logging.level":             "log-level",
		"logging.format":            "log-format",
	})

	root.AddCommand(newRenderCmd(v), newDisplayCmd(v))
	return root
}

func initConfig(v *viper.Viper, logOut io.Writer) error {
	config.SetDefaults(v)

	if err := config.LoadEnvFile(v.GetString("env_file")); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("shots")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		// Missing default config file is fine.
		_ = v.ReadInConfig()
	}

	v.SetEnvPrefix(config.EnvPrefix)
	// SHOTS_CAPTURE_POOL_SIZE for capture.pool_size
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	level := v.GetString("logging.level")
	format := v.GetString("logging.format")
	shots.SetLogger(newLogger(logOut, level, format))
	return nil
}

// newLogger builds the slog logger installed into the shots package.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// bindFlags binds config keys to flags in fs.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, fs.Lookup(name))
	}
}
