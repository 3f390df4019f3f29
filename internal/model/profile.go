package model

import "time"

type Profile struct {
	ID           int64     `json:"id"`
	DisplayName  string    `json:"display_name"`
	TokenBalance int64     `json:"token_balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LedgerReason labels why a balance moved.
type LedgerReason string

const (
	LedgerReasonGeneration LedgerReason = "version_generation"
	LedgerReasonTopUp      LedgerReason = "top_up"
	LedgerReasonAdjustment LedgerReason = "adjustment"
)

type LedgerEntry struct {
	ID           int64        `json:"id"`
	ProfileID    int64        `json:"profile_id"`
	Delta        int64        `json:"delta"`
	BalanceAfter int64        `json:"balance_after"`
	Reason       LedgerReason `json:"reason"`
	RobotID      *int64       `json:"robot_id,omitempty"`
	VersionID    *int64       `json:"version_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
