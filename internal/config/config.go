package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL          string
	ListenAddr      string
	Distributor     string
	Multicall       string
	WrappedNative   string
	WrappedSymbol   string
	FeedURL         string
	ChunkSize       int
	CacheTTL        time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
	PGDSN           string
	HistoryFile     string
	LogLevel        string
}

// Canonical deployment addresses used as defaults. Multicall3 lives at the
// same address on every supported chain.
const (
	DefaultMulticall     = "0xcA11bde05977b3631167028862bE2a173976CA11"
	DefaultWrappedNative = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	DefaultWrappedSymbol = "WETH"
)

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FEESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", ":8080")
	v.SetDefault("multicall", DefaultMulticall)
	v.SetDefault("wrapped-native", DefaultWrappedNative)
	v.SetDefault("wrapped-symbol", DefaultWrappedSymbol)
	v.SetDefault("chunk-size", 500)
	v.SetDefault("cache-ttl", 60*time.Second)
	v.SetDefault("poll-interval", 2500*time.Millisecond)
	v.SetDefault("poll-max-attempts", 6)
	v.SetDefault("history-file", "./data/claims.jsonl")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:          v.GetString("rpc"),
		ListenAddr:      v.GetString("listen"),
		Distributor:     v.GetString("distributor"),
		Multicall:       v.GetString("multicall"),
		WrappedNative:   v.GetString("wrapped-native"),
		WrappedSymbol:   v.GetString("wrapped-symbol"),
		FeedURL:         v.GetString("feed-url"),
		ChunkSize:       v.GetInt("chunk-size"),
		CacheTTL:        v.GetDuration("cache-ttl"),
		PollInterval:    v.GetDuration("poll-interval"),
		PollMaxAttempts: v.GetInt("poll-max-attempts"),
		PGDSN:           v.GetString("pg-dsn"),
		HistoryFile:     v.GetString("history-file"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}
