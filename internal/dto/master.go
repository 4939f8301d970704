package dto

import (
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGroupRequest defines the data needed to register a ledger group.
type CreateGroupRequest struct {
	Name          string            `json:"name" binding:"required"`
	ParentGroupID string            `json:"parentGroupID"` // Optional; empty for a root group
	Nature        domain.NatureType `json:"nature" binding:"required,naturetype"`
}

// UpdateGroupRequest defines the data allowed for updating a group.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateGroupRequest struct {
	Name   *string            `json:"name"`   // Optional: new name
	Nature *domain.NatureType `json:"nature"` // Optional: rejected once postings reference the group
}

// GroupResponse defines the data returned for a ledger group.
type GroupResponse struct {
	GroupID       string            `json:"groupID"`
	Name          string            `json:"name"`
	ParentGroupID string            `json:"parentGroupID"`
	Nature        domain.NatureType `json:"nature"`
	NormalSide    string            `json:"normalSide"`
	Statement     string            `json:"statement"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
}

// ToGroupResponse converts a domain.LedgerGroup to GroupResponse DTO.
func ToGroupResponse(g *domain.LedgerGroup) GroupResponse {
	return GroupResponse{
		GroupID:       g.GroupID,
		Name:          g.Name,
		ParentGroupID: g.ParentGroupID,
		Nature:        g.Nature,
		NormalSide:    string(g.Nature.NormalSide()),
		Statement:     string(g.Nature.Statement()),
		CreatedAt:     g.CreatedAt,
		CreatedBy:     g.CreatedBy,
	}
}

// ToListGroupResponse converts a slice of domain.LedgerGroup to DTOs.
func ToListGroupResponse(groups []domain.LedgerGroup) []GroupResponse {
	res := make([]GroupResponse, len(groups))
	for i, g := range groups {
		res[i] = ToGroupResponse(&g)
	}
	return res
}

// CreateLedgerRequest defines the data needed to register a ledger.
type CreateLedgerRequest struct {
	Name               string             `json:"name" binding:"required"`
	GroupID            string             `json:"groupID" binding:"required"`
	OpeningBalance     decimal.Decimal    `json:"openingBalance"` // Magnitude; zero if omitted
	OpeningBalanceType domain.BalanceType `json:"openingBalanceType" binding:"omitempty,oneof=DEBIT CREDIT"`
}

// LedgerResponse defines the data returned for a ledger.
type LedgerResponse struct {
	LedgerID           string             `json:"ledgerID"`
	Name               string             `json:"name"`
	GroupID            string             `json:"groupID"`
	Nature             domain.NatureType  `json:"nature"`
	OpeningBalance     decimal.Decimal    `json:"openingBalance"`
	OpeningBalanceType domain.BalanceType `json:"openingBalanceType"`
	CreatedAt          time.Time          `json:"createdAt"`
	CreatedBy          string             `json:"createdBy"`
}

// ToLedgerResponse converts a domain.Ledger to LedgerResponse DTO.
func ToLedgerResponse(l *domain.Ledger, nature domain.NatureType) LedgerResponse {
	return LedgerResponse{
		LedgerID:           l.LedgerID,
		Name:               l.Name,
		GroupID:            l.GroupID,
		Nature:             nature,
		OpeningBalance:     l.OpeningBalance,
		OpeningBalanceType: l.OpeningBalanceType,
		CreatedAt:          l.CreatedAt,
		CreatedBy:          l.CreatedBy,
	}
}

// LedgerBalanceResponse defines the data returned for a balance query.
// Balance is signed debit-positive; BalanceType restates it on its side.
type LedgerBalanceResponse struct {
	LedgerID    string             `json:"ledgerID"`
	AsOf        string             `json:"asOf"`
	Balance     decimal.Decimal    `json:"balance"`
	BalanceType domain.BalanceType `json:"balanceType"`
}
