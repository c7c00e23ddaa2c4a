package fees

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Multicall3 tryAggregate: one round trip executing many view calls with
// per-call success reporting.
const multicallABIJSON = `[
  {"inputs": [
     {"name": "requireSuccess", "type": "bool"},
     {"components": [
        {"name": "target", "type": "address"},
        {"name": "callData", "type": "bytes"}
      ], "name": "calls", "type": "tuple[]"}
   ],
   "name": "tryAggregate",
   "outputs": [
     {"components": [
        {"name": "success", "type": "bool"},
        {"name": "returnData", "type": "bytes"}
      ], "name": "returnData", "type": "tuple[]"}
   ],
   "stateMutability": "payable", "type": "function"}
]`

type multicallCall struct {
	Target   common.Address
	CallData []byte
}

type multicallResult struct {
	Success    bool
	ReturnData []byte
}

var (
	multicallABI     abi.ABI
	multicallABIOnce sync.Once
	multicallABIErr  error
)

func multicallABIInstance() (abi.ABI, error) {
	multicallABIOnce.Do(func() {
		multicallABI, multicallABIErr = abi.JSON(strings.NewReader(multicallABIJSON))
	})
	return multicallABI, multicallABIErr
}

func packTryAggregate(calls []multicallCall) ([]byte, error) {
	parsed, err := multicallABIInstance()
	if err != nil {
		return nil, fmt.Errorf("parse multicall abi: %w", err)
	}
	data, err := parsed.Pack("tryAggregate", false, calls)
	if err != nil {
		return nil, fmt.Errorf("pack tryAggregate: %w", err)
	}
	return data, nil
}

func unpackTryAggregate(data []byte) ([]multicallResult, error) {
	parsed, err := multicallABIInstance()
	if err != nil {
		return nil, fmt.Errorf("parse multicall abi: %w", err)
	}
	values, err := parsed.Unpack("tryAggregate", data)
	if err != nil {
		return nil, fmt.Errorf("unpack tryAggregate: %w", err)
	}
	results := *abi.ConvertType(values[0], new([]multicallResult)).(*[]multicallResult)
	return results, nil
}
