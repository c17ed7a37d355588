package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetPriorsCmd = &cobra.Command{
	Use:   "reset-priors [user-id...]",
	Short: "Rebuild priors from profile embeddings",
	Long: "Rebuild the prior of the given users, or of every user when no id is " +
		"given, from their profile embedding and the current catalog.",
	RunE: runResetPriors,
}

func init() {
	rootCmd.AddCommand(resetPriorsCmd)
}

func runResetPriors(cmd *cobra.Command, args []string) error {
	cfg, logger, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	a, err := newApp(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ids := args
	if len(ids) == 0 {
		if ids, err = a.userRepo.ListIDs(ctx); err != nil {
			return fmt.Errorf("list users: %w", err)
		}
	}

	var failed int
	for _, id := range ids {
		if err := a.recommendations.ResetPrior(ctx, id); err != nil {
			failed++
			logger.Warn("reset_prior_failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	logger.Info("reset_priors_done", zap.Int("users", len(ids)), zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d priors failed to reset", failed, len(ids))
	}
	return nil
}
