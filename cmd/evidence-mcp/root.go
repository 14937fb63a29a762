// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gemaraproj/evidence-mcp/internal/config"
)

// app is the state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	year   int
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "evidence-mcp",
		Short:         "Chunk documents and rank evidence passages",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or "+config.DefaultPath+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newServeCmd(a), newChunkCmd(a), newRankCmd(a))
	return root
}

func (a *app) load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	path := config.Resolve(a.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, a.verbose)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.year = cfg.Year(time.Now())
	a.logger = logger
	a.logger.Debug("configuration loaded", zap.String("path", path), zap.Int("current_year", a.year))
	return nil
}

// newLogger logs to stderr; stdout carries MCP traffic and command output.
func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Encoding
	if zc.Encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
