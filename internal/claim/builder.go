package claim

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallPayload is a prepared call for an external wallet provider to sign and
// broadcast. The core only constructs it.
type CallPayload struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// BuildClaimCall encodes a batched claimFees call that claims every listed
// token for the recipient in one transaction. Pure: no network, no state.
func BuildClaimCall(distributor, recipient common.Address, tokens []common.Address) (CallPayload, error) {
	if len(tokens) == 0 {
		return CallPayload{}, fmt.Errorf("at least one token address is required")
	}

	parsed, err := DistributorABI()
	if err != nil {
		return CallPayload{}, fmt.Errorf("parse distributor abi: %w", err)
	}
	data, err := parsed.Pack("claimFees", recipient, tokens)
	if err != nil {
		return CallPayload{}, fmt.Errorf("pack claimFees: %w", err)
	}

	return CallPayload{
		To:   distributor.Hex(),
		Data: hexutil.Encode(data),
	}, nil
}
