package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"feeScope/internal/config"
	"feeScope/internal/fees"
)

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	walletFlag, _ := cmd.Flags().GetString("wallet")
	wallet, err := parseAddress(walletFlag, "wallet")
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	pollUntilZero, _ := cmd.Flags().GetBool("poll-until-zero")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pipe.Close()

	refresher := fees.NewRefresher(pipe.service.Snapshot, cfg.PollInterval, cfg.PollMaxAttempts, logger)

	snapshot, started, err := refresher.Refresh(ctx, wallet, fees.RefreshOptions{
		Force:         force,
		PollUntilZero: pollUntilZero,
	})
	if err != nil {
		return err
	}
	if !started {
		return fmt.Errorf("refresh already in flight")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot)
}
