package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestTrialBalance_AsOfBoundsRange() {
	companyID := uuid.NewString()
	asOf := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("TrialBalance", mock.Anything,
		mock.MatchedBy(func(f domain.ReportFilter) bool {
			return f.DateRange.From == nil &&
				f.DateRange.To != nil && f.DateRange.To.Equal(asOf) &&
				f.CompanyID != nil && *f.CompanyID == companyID
		}),
	).Return(&domain.TrialBalanceReport{
		Rows:         []domain.TrialBalanceRow{},
		TotalDebit:   decimal.NewFromInt(15000),
		TotalCredit:  decimal.NewFromInt(15000),
		TotalBalance: decimal.Zero,
		Balanced:     true,
	}, nil).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/reports/trial-balance?to=2025-12-31&asOf=2025-08-31&companyID=%s", companyID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.TrialBalanceReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balanced)
}

func (suite *HandlerTestSuite) TestReports_InvalidQuery() {
	for _, url := range []string{
		"/api/v1/reports/trial-balance?from=yesterday",
		"/api/v1/reports/general-ledger?accountID=cash",
		"/api/v1/reports/income-statement?companyID=acme",
	} {
		w := suite.do(http.MethodGet, url, nil)
		suite.Equal(http.StatusBadRequest, w.Code, url)
	}
}

func (suite *HandlerTestSuite) TestReports_InvertedRangeIsBadRequest() {
	suite.mockReportingService.On("IncomeStatement", mock.Anything, mock.Anything).
		Return(nil, &apperrors.InvalidDateRangeError{Reason: "from is after to"}).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/income-statement?from=2025-09-01&to=2025-08-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_DATE_RANGE", suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestReports_TimeoutIsGatewayTimeout() {
	suite.mockReportingService.On("BalanceSheet", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("balance sheet report aborted: %w", context.DeadlineExceeded)).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/balance-sheet", nil)

	suite.Equal(http.StatusGatewayTimeout, w.Code)
}

func (suite *HandlerTestSuite) TestGeneralLedger_UnknownAccount() {
	accountID := uuid.NewString()
	suite.mockReportingService.On("GeneralLedger", mock.Anything,
		mock.MatchedBy(func(f domain.ReportFilter) bool { return f.AccountID != nil && *f.AccountID == accountID }),
	).Return(nil, apperrors.NewNotFound("account", accountID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/general-ledger?accountID="+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestJournalBook() {
	entryID := uuid.NewString()
	suite.mockReportingService.On("JournalBook", mock.Anything,
		mock.MatchedBy(func(f domain.ReportFilter) bool { return f.DateRange.From != nil && f.DateRange.To != nil }),
	).Return(&domain.JournalBookReport{
		Entries: []domain.JournalBookEntry{{EntryID: entryID, SequenceNumber: 1, Memo: "Initial"}},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/journal?from=2025-01-01&to=2025-12-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.JournalBookReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 1)
	suite.Equal(entryID, resp.Entries[0].EntryID)
}

func (suite *HandlerTestSuite) TestAccountBalances() {
	suite.mockReportingService.On("AccountBalances", mock.Anything, mock.Anything).
		Return([]domain.AccountBalance{{AccountID: uuid.NewString(), Code: "1001", Balance: decimal.NewFromInt(10)}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/account-balances", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalancesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Balances, 1)
}

func (suite *HandlerTestSuite) TestVerifyIntegrity_ReportsIssues() {
	companyID := uuid.NewString()
	suite.mockReportingService.On("VerifyIntegrity", mock.Anything,
		mock.MatchedBy(func(id *string) bool { return id != nil && *id == companyID }),
	).Return(&domain.IntegrityReport{
		CheckedEntries: 2,
		Issues:         []domain.IntegrityIssue{{EntryID: "e1", Kind: domain.IssueUnbalanced}},
		OK:             false,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/integrity?companyID="+companyID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.IntegrityReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.OK)
	suite.Len(resp.Issues, 1)
}

func (suite *HandlerTestSuite) TestCompanies() {
	companyID := uuid.NewString()
	suite.mockCompanyService.On("CreateCompany", mock.Anything,
		mock.MatchedBy(func(r dto.CreateCompanyRequest) bool { return r.Name == "Acme" }),
		testActor,
	).Return(&domain.Company{CompanyID: companyID, Name: "Acme", IsActive: true}, nil).Once()
	suite.mockCompanyService.On("GetCompanyByID", mock.Anything, companyID).
		Return(nil, apperrors.NewNotFound("company", companyID)).Once()
	suite.mockCompanyService.On("ListCompanies", mock.Anything).Return([]domain.Company{}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme"})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme", "email": "not-an-email"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/companies/"+companyID, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/companies", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"companies":[]}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestHealthAndMetrics() {
	w := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())

	suite.metrics.EntryPosted()
	w = suite.do(http.MethodGet, "/metrics", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(strings.Contains(w.Body.String(), "ledger_entries_posted_total 1"))
}
