package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var embedJobsCmd = &cobra.Command{
	Use:   "embed-jobs",
	Short: "Embed every job that has no vector yet",
	Long: "Embed every stored job that has no vector yet and insert the newly " +
		"embedded jobs into existing priors. Safe to re-run.",
	Args: cobra.NoArgs,
	RunE: runEmbedJobs,
}

func init() {
	rootCmd.AddCommand(embedJobsCmd)
}

func runEmbedJobs(cmd *cobra.Command, _ []string) error {
	cfg, logger, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cmd.Context(), &cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.jobs.EmbedMissing(cmd.Context())
	if err != nil {
		logger.Error("embed_jobs_failed", zap.Error(err))
		return err
	}
	logger.Info("embed_jobs_done", zap.Int("embedded", n))
	return nil
}
