package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrec/internal/config"
	logpkg "github.com/kailas-cloud/jobrec/internal/logger"
)

var (
	cfgPath string
	envName string
)

var rootCmd = &cobra.Command{
	Use:          "jobrec",
	Short:        "Job recommendation API",
	Long:         "jobrec keeps a per-user probability distribution over open jobs and serves top-K recommendations.",
	SilenceUsage: true,
	// Running the bare binary starts the API server.
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment name (default: ENV variable or \"local\")")
}

// bootstrap loads configuration and builds the logger.
// Priority: --config > --env > ENV variable.
func bootstrap() (config.Config, *zap.Logger, string, error) {
	env := envName
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.LoadFile(cfgPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, env, nil
}
