package claim

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const distributorABIJSON = `[
  {"inputs": [{"name": "_owner", "type": "address"}, {"name": "_token", "type": "address"}], "name": "claimableFees", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "_recipient", "type": "address"}, {"name": "_tokens", "type": "address[]"}], "name": "claimFees", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
]`

var (
	distributorABI     abi.ABI
	distributorABIOnce sync.Once
	distributorABIErr  error
)

// DistributorABI returns the fee distributor contract ABI.
func DistributorABI() (abi.ABI, error) {
	distributorABIOnce.Do(func() {
		distributorABI, distributorABIErr = abi.JSON(strings.NewReader(distributorABIJSON))
	})
	return distributorABI, distributorABIErr
}

// PackClaimableFees encodes the claimableFees(owner, token) view call.
func PackClaimableFees(owner, tokenAddr common.Address) ([]byte, error) {
	parsed, err := DistributorABI()
	if err != nil {
		return nil, fmt.Errorf("parse distributor abi: %w", err)
	}
	data, err := parsed.Pack("claimableFees", owner, tokenAddr)
	if err != nil {
		return nil, fmt.Errorf("pack claimableFees: %w", err)
	}
	return data, nil
}

// UnpackClaimableFees decodes the uint256 result of a claimableFees call.
func UnpackClaimableFees(data []byte) (*big.Int, error) {
	parsed, err := DistributorABI()
	if err != nil {
		return nil, fmt.Errorf("parse distributor abi: %w", err)
	}
	values, err := parsed.Unpack("claimableFees", data)
	if err != nil {
		return nil, fmt.Errorf("unpack claimableFees: %w", err)
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unsupported amount type %T", values[0])
	}
	return amount, nil
}
