package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"feeScope/internal/claim"
	"feeScope/internal/config"
)

func runClaim(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	distributor, err := parseAddress(cfg.Distributor, "distributor")
	if err != nil {
		return err
	}

	walletFlag, _ := cmd.Flags().GetString("wallet")
	wallet, err := parseAddress(walletFlag, "wallet")
	if err != nil {
		return err
	}

	tokenFlags, _ := cmd.Flags().GetStringSlice("tokens")
	if len(tokenFlags) == 0 {
		return fmt.Errorf("at least one token address is required")
	}
	tokens := make([]common.Address, 0, len(tokenFlags))
	for _, raw := range tokenFlags {
		addr, err := parseAddress(raw, "token")
		if err != nil {
			return err
		}
		tokens = append(tokens, addr)
	}

	payload, err := claim.BuildClaimCall(distributor, wallet, tokens)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
