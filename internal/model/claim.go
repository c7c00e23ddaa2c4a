package model

import "time"

// ClaimRecord is one confirmed claim reported by a caller after the
// transaction settled.
type ClaimRecord struct {
	Owner     string    `json:"owner"`
	TxHash    string    `json:"tx_hash"`
	Tokens    []string  `json:"tokens"`
	ClaimedAt time.Time `json:"claimed_at"`
}
