package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleAccount(id string) *domain.Account {
	now := time.Date(2025, 8, 12, 9, 30, 0, 0, time.UTC)
	return &domain.Account{
		AccountID:   id,
		Code:        "1001",
		Name:        "Cash",
		AccountType: domain.Asset,
		Nature:      domain.DebitNature,
		Subtype:     domain.CurrentAsset,
		Level:       1,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     testActor,
			LastUpdatedAt: now,
			LastUpdatedBy: testActor,
		},
	}
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("CreateAccount", mock.Anything,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.Code == "1001" && r.AccountType == domain.Asset && r.Subtype == domain.CurrentAsset
		}),
		testActor,
	).Return(sampleAccount(accountID), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code":        "1001",
		"name":        "Cash",
		"accountType": "ASSET",
		"nature":      "DEBIT",
		"subtype":     "CURRENT_ASSET",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
	suite.Equal(domain.CurrentAsset, resp.Subtype)
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code":        "1001",
		"name":        "Cash",
		"accountType": "CASH",
		"nature":      "DEBIT",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, testActor).
		Return(nil, &apperrors.DuplicateCodeError{Code: "1001"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code": "1001", "name": "Cash", "accountType": "ASSET", "nature": "DEBIT",
	})

	suite.Equal(http.StatusConflict, w.Code)
	body := suite.decodeError(w)
	suite.Equal("DUPLICATE_CODE", body.Code)
	suite.Equal("1001", body.Details["code"])
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidParent() {
	parentID := uuid.NewString()
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, testActor).
		Return(nil, &apperrors.InvalidParentError{ParentID: parentID, Reason: "parent account does not exist"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"code": "1101", "name": "Petty cash", "accountType": "ASSET", "nature": "DEBIT", "parentAccountID": parentID,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	body := suite.decodeError(w)
	suite.Equal("INVALID_PARENT", body.Code)
	suite.Equal(parentID, body.Details["parentAccountID"])
}

func (suite *HandlerTestSuite) TestGetAccount_MalformedID() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/not-a-uuid", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, apperrors.NewNotFound("account", accountID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestListAccounts_IncludeInactive() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, true).
		Return([]domain.Account{*sampleAccount(uuid.NewString())}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?includeInactive=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 1)
}

func (suite *HandlerTestSuite) TestUpdateAccount_UnknownSubtype() {
	w := suite.do(http.MethodPut, "/api/v1/accounts/"+uuid.NewString(), `{"subtype":"GOODWILL"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "UpdateAccount")
}

func (suite *HandlerTestSuite) TestUpdateAccount_Success() {
	accountID := uuid.NewString()
	updated := sampleAccount(accountID)
	updated.Name = "Cash at bank"
	suite.mockAccountService.On("UpdateAccount", mock.Anything, accountID,
		mock.MatchedBy(func(r dto.UpdateAccountRequest) bool { return r.Name != nil && *r.Name == "Cash at bank" }),
		"alice",
	).Return(updated, nil).Once()

	w := suite.doAs("alice", http.MethodPut, "/api/v1/accounts/"+accountID, `{"name":"Cash at bank"}`)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestDeactivateAccount_UsesActorHeader() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, accountID, "alice").Return(nil).Once()

	w := suite.doAs("alice", http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/deactivate", accountID), nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteAccount_Referenced() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, accountID, testActor).
		Return(&apperrors.ReferencedAccountError{AccountID: accountID}).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("ACCOUNT_REFERENCED", suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestGetAccountBalance_CreditNature() {
	accountID := uuid.NewString()
	suite.mockReportingService.On("AccountBalance", mock.Anything, accountID,
		mock.MatchedBy(func(f domain.ReportFilter) bool {
			return f.DateRange.To != nil && f.DateRange.To.Equal(time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC))
		}),
	).Return(&domain.AccountBalance{
		AccountID:   accountID,
		Code:        "3001",
		Name:        "Capital",
		AccountType: domain.Equity,
		Nature:      domain.CreditNature,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.NewFromInt(15000),
		Balance:     decimal.NewFromInt(-15000),
	}, nil).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/balance?asOf=2025-08-31", accountID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.NewFromInt(-15000)))
	suite.True(resp.NaturalBalance.Equal(decimal.NewFromInt(15000)))
}
