package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "feescope",
		Short:        "Claimable-fee aggregation service",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  runServe,
	}
	addPipelineFlags(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN for claim history (empty uses the JSONL store)")
	serveCmd.Flags().String("history-file", "./data/claims.jsonl", "claim history JSONL path")

	root.AddCommand(serveCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one claimable-fee snapshot and print it as JSON",
		RunE:  runSnapshot,
	}
	addPipelineFlags(snapshotCmd)
	snapshotCmd.Flags().String("wallet", "", "owner wallet address")
	snapshotCmd.Flags().Bool("force", true, "bypass the result cache")
	snapshotCmd.Flags().Bool("poll-until-zero", false, "re-fetch until no claimable fees remain")

	root.AddCommand(snapshotCmd)

	claimCmd := &cobra.Command{
		Use:   "claim",
		Short: "Print the encoded batched-claim calldata for a wallet",
		RunE:  runClaim,
	}
	claimCmd.Flags().String("distributor", "", "fee distributor contract address")
	claimCmd.Flags().String("wallet", "", "recipient wallet address")
	claimCmd.Flags().StringSlice("tokens", nil, "token addresses to claim (comma-separated)")

	root.AddCommand(claimCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "chain RPC URL")
	cmd.Flags().String("distributor", "", "fee distributor contract address")
	cmd.Flags().String("multicall", "", "Multicall3 contract address")
	cmd.Flags().String("wrapped-native", "", "wrapped native-currency token address")
	cmd.Flags().String("wrapped-symbol", "", "wrapped native-currency token symbol")
	cmd.Flags().String("feed-url", "", "token discovery feed URL")
	cmd.Flags().Int("chunk-size", 500, "tokens per multicall chunk")
	cmd.Flags().Duration("cache-ttl", 60*time.Second, "snapshot cache TTL")
	cmd.Flags().Duration("poll-interval", 2500*time.Millisecond, "inter-poll delay")
	cmd.Flags().Int("poll-max-attempts", 6, "poll attempt budget")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func parseAddress(value, name string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s must be a hex address, got %q", name, value)
	}
	return common.HexToAddress(value), nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
