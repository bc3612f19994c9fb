package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// respondError maps err onto an HTTP status and writes a structured body.
// Client faults are logged at warn, everything else at error.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status, body := describeError(err, fallback)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func describeError(err error, fallback string) (int, ErrorResponse) {
	var (
		missing    *apperrors.MissingFieldError
		lines      *apperrors.InsufficientLinesError
		empty      *apperrors.EmptyLineError
		amount     *apperrors.InvalidAmountError
		account    *apperrors.UnknownAccountError
		company    *apperrors.UnknownCompanyError
		unbalanced *apperrors.UnbalancedEntryError
		parent     *apperrors.InvalidParentError
		dateRange  *apperrors.InvalidDateRangeError
		duplicate  *apperrors.DuplicateCodeError
		referenced *apperrors.ReferencedAccountError
		voided     *apperrors.EntryVoidedError
		conflict   *apperrors.SequenceConflictError
		notFound   *apperrors.NotFoundError
	)

	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "MISSING_FIELD",
			Details: map[string]any{"field": missing.Field}}
	case errors.As(err, &lines):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INSUFFICIENT_LINES",
			Details: map[string]any{"got": lines.Got, "min": lines.Min}}
	case errors.As(err, &empty):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "EMPTY_LINE",
			Details: map[string]any{"line": empty.Line, "accountID": empty.AccountID}}
	case errors.As(err, &amount):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_AMOUNT",
			Details: map[string]any{"line": amount.Line, "amount": amount.Amount.String(), "reason": amount.Reason}}
	case errors.As(err, &account):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "UNKNOWN_ACCOUNT",
			Details: map[string]any{"accountID": account.AccountID, "inactive": account.Inactive}}
	case errors.As(err, &company):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "UNKNOWN_COMPANY",
			Details: map[string]any{"companyID": company.CompanyID}}
	case errors.As(err, &unbalanced):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "UNBALANCED_ENTRY",
			Details: map[string]any{"totalDebit": unbalanced.TotalDebit.String(), "totalCredit": unbalanced.TotalCredit.String()}}
	case errors.As(err, &parent):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_PARENT",
			Details: map[string]any{"parentAccountID": parent.ParentID, "reason": parent.Reason}}
	case errors.As(err, &dateRange):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_DATE_RANGE"}
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION"}
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND",
			Details: map[string]any{"resource": notFound.Resource, "id": notFound.ID}}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"}
	case errors.As(err, &duplicate):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DUPLICATE_CODE",
			Details: map[string]any{"code": duplicate.Code}}
	case errors.As(err, &referenced):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "ACCOUNT_REFERENCED",
			Details: map[string]any{"accountID": referenced.AccountID}}
	case errors.As(err, &voided):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "ENTRY_VOIDED",
			Details: map[string]any{"entryID": voided.EntryID}}
	case errors.As(err, &conflict):
		return http.StatusConflict, ErrorResponse{Error: "concurrent posting conflict, retry the request", Code: "SEQUENCE_CONFLICT"}
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "CONFLICT"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out", Code: "TIMEOUT"}
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable, retry later", Code: "STORAGE"}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: fallback}
}

// bindError answers a request whose body or query could not be bound.
func bindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + what + ": " + err.Error(), Code: "BAD_REQUEST"})
}

// uuidParam reads a path parameter that must be a UUID.
func uuidParam(c *gin.Context, logger *slog.Logger, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid path parameter", slog.String("param", name), slog.String("value", raw))
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: name + " must be a UUID", Code: "BAD_REQUEST"})
		return "", false
	}
	return id.String(), true
}

// actorFrom returns the acting user, answering 401 if none was resolved.
func actorFrom(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Acting user ID not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
