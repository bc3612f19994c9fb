package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/general-ledger", h.getGeneralLedger)
		reportingGroup.GET("/journal", h.getJournalBook)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/account-balances", h.getAccountBalances)
		reportingGroup.GET("/integrity", h.verifyIntegrity)
	}
}

// bindReportFilter reads the shared report query parameters.
func bindReportFilter(c *gin.Context, logger *slog.Logger) (domain.ReportFilter, bool) {
	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return domain.ReportFilter{}, false
	}
	filter, err := params.ToFilter()
	if err != nil {
		bindError(c, logger, err, "query parameters")
		return domain.ReportFilter{}, false
	}
	return filter, true
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists every account with movement and its debit minus credit balance. The balances sum to zero.
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param asOf query string false "Report date (YYYY-MM-DD), overrides to"
// @Param companyID query string false "Company ID"
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 504 {object} ErrorResponse "Report timed out"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filter, ok := bindReportFilter(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getGeneralLedger godoc
// @Summary Generate general ledger report
// @Description Lists postings per account in date and sequence order with a running balance
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param companyID query string false "Company ID"
// @Param accountID query string false "Restrict to one account"
// @Success 200 {object} domain.GeneralLedgerReport
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 504 {object} ErrorResponse "Report timed out"
// @Router /reports/general-ledger [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filter, ok := bindReportFilter(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.GeneralLedger(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate general ledger")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getJournalBook godoc
// @Summary Generate journal book
// @Description Every active entry in the range, ordered by date and sequence number, with its lines
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param companyID query string false "Company ID"
// @Success 200 {object} domain.JournalBookReport
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 504 {object} ErrorResponse "Report timed out"
// @Router /reports/journal [get]
func (h *reportingHandler) getJournalBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filter, ok := bindReportFilter(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.JournalBook(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate journal book")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Cumulative position as of a date, with current earnings folded into equity
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Param companyID query string false "Company ID"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 504 {object} ErrorResponse "Report timed out"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filter, ok := bindReportFilter(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Generate income statement report
// @Description Income and expense totals over a date range
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param companyID query string false "Company ID"
// @Success 200 {object} domain.IncomeStatementReport
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 504 {object} ErrorResponse "Report timed out"
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filter, ok := bindReportFilter(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getAccountBalances godoc
// @Summary Balances of all accounts with movement
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param asOf query string false "Report date (YYYY-MM-DD), overrides to"
// @Param companyID query string false "Company ID"
// @Success 200 {object} dto.AccountBalancesResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Router /reports/account-balances [get]
func (h *reportingHandler) getAccountBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filter, ok := bindReportFilter(c, logger)
	if !ok {
		return
	}

	balances, err := h.reportingService.AccountBalances(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to compute account balances")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalancesResponse{Balances: balances})
}

// verifyIntegrity godoc
// @Summary Verify ledger integrity
// @Description Recomputes every entry from its postings and checks balance, line count, header totals and sequence order
// @Tags reports
// @Produce json
// @Param companyID query string false "Company ID"
// @Success 200 {object} domain.IntegrityReport
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Router /reports/integrity [get]
func (h *reportingHandler) verifyIntegrity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	filter, ok := bindReportFilter(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.VerifyIntegrity(c.Request.Context(), filter.CompanyID)
	if err != nil {
		respondError(c, logger, err, "Failed to verify integrity")
		return
	}
	if !report.OK {
		logger.Warn("Integrity check found issues", slog.Int("issue_count", len(report.Issues)))
	}
	c.JSON(http.StatusOK, report)
}
