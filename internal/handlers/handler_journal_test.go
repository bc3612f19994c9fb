package handlers_test

import (
	"context"
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

func entryBody(cash, capital string, debit, credit any) map[string]any {
	return map[string]any{
		"entryDate": "2025-08-12",
		"memo":      "Initial capital",
		"lines": []map[string]any{
			{"accountID": cash, "debit": debit},
			{"accountID": capital, "credit": credit},
		},
	}
}

func (suite *HandlerTestSuite) TestPostEntry_Success() {
	cash, capital := uuid.NewString(), uuid.NewString()
	posted := &domain.JournalEntry{
		EntryID:        uuid.NewString(),
		SequenceNumber: 1,
		EntryDate:      time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC),
		Memo:           "Initial capital",
		TotalDebit:     decimal.NewFromInt(15000),
		TotalCredit:    decimal.NewFromInt(15000),
		Status:         domain.EntryActive,
		PostedBy:       testActor,
	}
	suite.mockJournalService.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(r dto.PostEntryRequest) bool {
			return len(r.Lines) == 2 &&
				r.Lines[0].Debit.Equal(decimal.NewFromInt(15000)) &&
				r.Lines[1].Credit.Equal(decimal.NewFromInt(15000)) &&
				r.EntryDate.Equal(posted.EntryDate)
		}),
		testActor,
	).Return(posted, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/entries", entryBody(cash, capital, "15000", 15000))

	suite.Equal(http.StatusCreated, w.Code)
	var resp domain.JournalEntry
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(1), resp.SequenceNumber)
	suite.Equal(domain.EntryActive, resp.Status)
}

func (suite *HandlerTestSuite) TestPostEntry_RejectsBadAmountsBeforeService() {
	cash, capital := uuid.NewString(), uuid.NewString()
	cases := map[string]map[string]any{
		"three decimals":  entryBody(cash, capital, "10.005", "10.005"),
		"negative debit":  entryBody(cash, capital, "-5", "0"),
		"too large":       entryBody(cash, capital, "10000000000000", "10000000000000"),
		"not a number":    entryBody(cash, capital, "ten", "10"),
		"missing account": {"entryDate": "2025-08-12", "lines": []map[string]any{{"debit": "1"}, {"accountID": capital, "credit": "1"}}},
		"bad date":        {"entryDate": "12/08/2025", "lines": []map[string]any{}},
	}
	for name, body := range cases {
		w := suite.do(http.MethodPost, "/api/v1/entries", body)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
	suite.mockJournalService.AssertNotCalled(suite.T(), "PostEntry")
}

func (suite *HandlerTestSuite) TestPostEntry_ValidationErrorsCarryDetails() {
	cash, capital := uuid.NewString(), uuid.NewString()
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		details map[string]any
	}{
		{
			name:    "unbalanced",
			err:     &apperrors.UnbalancedEntryError{TotalDebit: decimal.NewFromInt(100), TotalCredit: decimal.NewFromInt(90)},
			status:  http.StatusBadRequest,
			code:    "UNBALANCED_ENTRY",
			details: map[string]any{"totalDebit": "100", "totalCredit": "90"},
		},
		{
			name:    "inactive account",
			err:     &apperrors.UnknownAccountError{AccountID: cash, Inactive: true},
			status:  http.StatusBadRequest,
			code:    "UNKNOWN_ACCOUNT",
			details: map[string]any{"accountID": cash, "inactive": true},
		},
		{
			name:    "too few lines",
			err:     &apperrors.InsufficientLinesError{Got: 1, Min: 2},
			status:  http.StatusBadRequest,
			code:    "INSUFFICIENT_LINES",
			details: map[string]any{"got": float64(1), "min": float64(2)},
		},
		{
			name:    "empty line",
			err:     &apperrors.EmptyLineError{Line: 2, AccountID: capital},
			status:  http.StatusBadRequest,
			code:    "EMPTY_LINE",
			details: map[string]any{"line": float64(2), "accountID": capital},
		},
		{
			name:   "sequence conflict",
			err:    &apperrors.SequenceConflictError{},
			status: http.StatusConflict,
			code:   "SEQUENCE_CONFLICT",
		},
		{
			name:   "storage",
			err:    apperrors.NewStorageError("insert entry", fmt.Errorf("connection refused")),
			status: http.StatusServiceUnavailable,
			code:   "STORAGE",
		},
		{
			name:   "deadline",
			err:    fmt.Errorf("post entry: %w", context.DeadlineExceeded),
			status: http.StatusGatewayTimeout,
			code:   "TIMEOUT",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.mockJournalService.On("PostEntry", mock.Anything, mock.Anything, testActor).Return(nil, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/entries", entryBody(cash, capital, "100", "90"))

			suite.Equal(tc.status, w.Code)
			body := suite.decodeError(w)
			suite.Equal(tc.code, body.Code)
			for k, v := range tc.details {
				suite.Equal(v, body.Details[k], k)
			}
		})
	}
}

func (suite *HandlerTestSuite) TestListEntries_PassesPagination() {
	token := "abc"
	suite.mockJournalService.On("ListEntries", mock.Anything,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.Limit == 5 && p.IncludeVoided && p.NextToken != nil && *p.NextToken == token
		}),
	).Return(&dto.ListEntriesResponse{Entries: []domain.JournalEntry{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/entries?limit=5&includeVoided=true&nextToken="+token, nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestListEntries_LimitTooLarge() {
	w := suite.do(http.MethodGet, "/api/v1/entries?limit=5000", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetEntry_NotFound() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("GetEntryByID", mock.Anything, entryID).
		Return(nil, apperrors.NewNotFound("journal entry", entryID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/entries/"+entryID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestVoidEntry_AlreadyVoided() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("VoidEntry", mock.Anything, entryID, testActor).
		Return(nil, &apperrors.EntryVoidedError{EntryID: entryID}).Once()

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/entries/%s/void", entryID), nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("ENTRY_VOIDED", suite.decodeError(w).Code)
}

func (suite *HandlerTestSuite) TestDeleteEntry() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("DeleteEntry", mock.Anything, entryID, "bob").Return(nil).Once()

	w := suite.doAs("bob", http.MethodDelete, "/api/v1/entries/"+entryID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
}
