package dto

import "github.com/SscSPs/ledger_engine/internal/core/domain"

// CreateCompanyRequest defines the data needed to register a company.
type CreateCompanyRequest struct {
	Name    string  `json:"name" binding:"required,max=150"`
	TaxID   *string `json:"taxID" binding:"omitempty,max=30"`
	Address *string `json:"address" binding:"omitempty,max=300"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

// ListCompaniesResponse wraps a list of companies.
type ListCompaniesResponse struct {
	Companies []domain.Company `json:"companies"`
}
