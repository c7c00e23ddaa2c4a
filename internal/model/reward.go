package model

// RewardAsset is one nonzero claimable fee balance for an owner.
type RewardAsset struct {
	Address         string `json:"address"`
	Symbol          string `json:"symbol"`
	Decimals        uint8  `json:"decimals"`
	Amount          string `json:"amount"`
	FormattedAmount string `json:"formattedAmount"`
}

// ClaimableSnapshot is the point-in-time view of an owner's claimable fees.
// TokenAddresses is exactly the set of addresses appearing in Rewards; an
// address never appears with a zero amount. Degraded is set when one or more
// on-chain reads failed and were zero-filled, so callers can tell "verified
// zero" apart from "unreadable".
type ClaimableSnapshot struct {
	Rewards        []RewardAsset `json:"rewards"`
	TokenAddresses []string      `json:"tokenAddresses"`
	Degraded       bool          `json:"degraded,omitempty"`
}

// EmptySnapshot returns a snapshot with no rewards. Slices are non-nil so the
// JSON form is {"rewards":[],"tokenAddresses":[]}.
func EmptySnapshot() *ClaimableSnapshot {
	return &ClaimableSnapshot{
		Rewards:        []RewardAsset{},
		TokenAddresses: []string{},
	}
}
