package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feeScope/internal/config"
	"feeScope/internal/server"
	"feeScope/internal/storage"
	"feeScope/internal/storage/postgres"
)

func runServe(cmd *cobra.Command, _ []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pipe.Close()

	var claims storage.ClaimStore
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		claims = store
		logger.Info("claim history in postgres")
	} else {
		claims = storage.NewJsonlStore(cfg.HistoryFile)
		logger.Info("claim history in jsonl file", zap.String("path", cfg.HistoryFile))
	}

	distributor, err := parseAddress(cfg.Distributor, "distributor")
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg.ListenAddr, pipe.service, claims, distributor, logger)

	logger.Info("feescope start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("listen", cfg.ListenAddr),
		zap.String("distributor", cfg.Distributor),
		zap.String("feed_url", cfg.FeedURL),
		zap.Int("chunk_size", cfg.ChunkSize),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)

	return srv.Run(ctx)
}
