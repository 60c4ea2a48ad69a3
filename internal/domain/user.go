package domain

import "time"

// User represents a registered player, keyed by wallet address
type User struct {
	WalletAddress string            `json:"wallet_address"`
	Username      string            `json:"username"`
	Gold          int               `json:"gold"`
	Profile       map[string]string `json:"profile,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
