package dto

import (
	"time"

	"devhubtrader.app/forge/internal/model"
	"devhubtrader.app/forge/internal/service"
)

type LedgerEntryResponse struct {
	ID           int64     `json:"id,string"`
	Delta        int64     `json:"delta"`
	BalanceAfter int64     `json:"balance_after"`
	Reason       string    `json:"reason"`
	RobotID      *string   `json:"robot_id,omitempty"`
	VersionID    *string   `json:"version_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type BalanceResponse struct {
	Tokens int64                  `json:"tokens"`
	Recent []*LedgerEntryResponse `json:"recent"`
}

func ToBalanceResponse(b *service.Balance) *BalanceResponse {
	recent := make([]*LedgerEntryResponse, len(b.Recent))
	for i := range b.Recent {
		recent[i] = toLedgerEntryResponse(&b.Recent[i])
	}
	return &BalanceResponse{Tokens: b.Tokens, Recent: recent}
}

func toLedgerEntryResponse(e *model.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:           e.ID,
		Delta:        e.Delta,
		BalanceAfter: e.BalanceAfter,
		Reason:       string(e.Reason),
		RobotID:      idString(e.RobotID),
		VersionID:    idString(e.VersionID),
		CreatedAt:    e.CreatedAt,
	}
}
