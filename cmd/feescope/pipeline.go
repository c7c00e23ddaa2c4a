package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"feeScope/internal/chain"
	"feeScope/internal/config"
	"feeScope/internal/discovery"
	"feeScope/internal/fees"
	"feeScope/internal/token"
)

// pipeline bundles the aggregation components shared by serve and snapshot.
type pipeline struct {
	chainClient *chain.Client
	service     *fees.Service
}

func (p *pipeline) Close() {
	if p.chainClient != nil {
		p.chainClient.Close()
	}
}

func buildPipeline(ctx context.Context, cfg config.Config, logger *zap.Logger) (*pipeline, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	distributor, err := parseAddress(cfg.Distributor, "distributor")
	if err != nil {
		return nil, err
	}
	multicall, err := parseAddress(cfg.Multicall, "multicall")
	if err != nil {
		return nil, err
	}
	wrappedNative, err := parseAddress(cfg.WrappedNative, "wrapped-native")
	if err != nil {
		return nil, err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	if chainID, err := chainClient.ChainID(ctx); err != nil {
		logger.Warn("chain id probe failed", zap.Error(err))
	} else {
		logger.Info("connected to chain", zap.String("chain_id", chainID.String()))
	}

	resolver := token.NewResolver(chainClient, wrappedNative, cfg.WrappedSymbol, logger)
	reader := fees.NewReader(chainClient, multicall, distributor, cfg.ChunkSize, logger)
	aggregator := fees.NewAggregator(reader, resolver, wrappedNative, logger)
	cache := fees.NewSnapshotCache(cfg.CacheTTL)
	feed := discovery.NewClient(cfg.FeedURL, logger)
	service := fees.NewService(feed, aggregator, cache, logger)

	return &pipeline{chainClient: chainClient, service: service}, nil
}
