package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string                `json:"code" binding:"required,max=20"`
	Name            string                `json:"name" binding:"required,max=150"`
	AccountType     domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Nature          domain.AccountNature  `json:"nature" binding:"required,oneof=DEBIT CREDIT"`
	Subtype         domain.AccountSubtype `json:"subtype" binding:"omitempty,oneof=CURRENT_ASSET FIXED_ASSET SHORT_TERM_LIABILITY LONG_TERM_LIABILITY"`
	ParentAccountID *string               `json:"parentAccountID" binding:"omitempty,uuid"`
	Description     string                `json:"description" binding:"max=500"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Type and nature are deliberately absent: they are fixed at creation.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Code            *string                `json:"code" binding:"omitempty,min=1,max=20"`
	Name            *string                `json:"name" binding:"omitempty,min=1,max=150"`
	Subtype         *domain.AccountSubtype `json:"subtype" binding:"omitempty,accountsubtype"`
	ParentAccountID *string                `json:"parentAccountID" binding:"omitempty,uuid"`
	ClearParent     bool                   `json:"clearParent"`
	Description     *string                `json:"description" binding:"omitempty,max=500"`
	IsActive        *bool                  `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                `json:"accountID"`
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	AccountType     domain.AccountType    `json:"accountType"`
	Nature          domain.AccountNature  `json:"nature"`
	Subtype         domain.AccountSubtype `json:"subtype,omitempty"`
	ParentAccountID *string               `json:"parentAccountID,omitempty"`
	Level           int                   `json:"level"`
	Description     string                `json:"description"`
	IsActive        bool                  `json:"isActive"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		Nature:          acc.Nature,
		Subtype:         acc.Subtype,
		ParentAccountID: acc.ParentAccountID,
		Level:           acc.Level,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountResponse converts a slice of domain.Account to a ListAccountsResponse
func ToListAccountResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// AccountBalanceResponse is the raw balance of one account.
type AccountBalanceResponse struct {
	AccountID      string               `json:"accountID"`
	Code           string               `json:"code"`
	Name           string               `json:"name"`
	Nature         domain.AccountNature `json:"nature"`
	TotalDebit     decimal.Decimal      `json:"totalDebit"`
	TotalCredit    decimal.Decimal      `json:"totalCredit"`
	Balance        decimal.Decimal      `json:"balance"`
	NaturalBalance decimal.Decimal      `json:"naturalBalance"`
}
