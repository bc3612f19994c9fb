package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/void", h.voidEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and atomically records a balanced entry. The entry gets the next sequence number.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.PostEntryRequest true "Entry with its posting lines"
// @Success 201 {object} domain.JournalEntry
// @Failure 400 {object} ErrorResponse "Entry rejected, details name the failing rule"
// @Failure 409 {object} ErrorResponse "Sequence conflict after retries"
// @Failure 503 {object} ErrorResponse "Storage unavailable"
// @Router /entries [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "request body")
		return
	}
	userID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to post entry", slog.Int("line_count", len(req.Lines)))

	entry, err := h.journalService.PostEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted", slog.String("entry_id", entry.EntryID), slog.Int64("sequence_number", entry.SequenceNumber))
	c.JSON(http.StatusCreated, entry)
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its posting lines in line order
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 400 {object} ErrorResponse "Malformed entry ID"
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Router /entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := uuidParam(c, logger, "entryID")
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first with token pagination. Voided entries are hidden unless includeVoided is set.
// @Tags entries
// @Produce  json
// @Param   companyID query string false "Company ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   includeVoided query bool false "Include voided entries"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Router /entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query parameters")
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// voidEntry godoc
// @Summary Void a journal entry
// @Description Marks an entry voided. Its sequence number is kept and it no longer counts in reports.
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Failure 409 {object} ErrorResponse "Entry already voided"
// @Router /entries/{entryID}/void [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := uuidParam(c, logger, "entryID")
	if !ok {
		return
	}
	userID, ok := actorFrom(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("entry_id", entryID), slog.String("user_id", userID))

	entry, err := h.journalService.VoidEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to void entry")
		return
	}

	logger.Info("Entry voided")
	c.JSON(http.StatusOK, entry)
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Removes an entry and its postings. The sequence number is never reused.
// @Tags entries
// @Param   entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Router /entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := uuidParam(c, logger, "entryID")
	if !ok {
		return
	}
	userID, ok := actorFrom(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("entry_id", entryID), slog.String("user_id", userID))

	if err := h.journalService.DeleteEntry(c.Request.Context(), entryID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete entry")
		return
	}

	logger.Info("Entry deleted")
	c.Status(http.StatusNoContent)
}
