package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/SscSPs/pocket_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journals.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createGeneralJournal)
		journals.POST("/expense", h.createExpenseJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.PUT("/:journalID", h.replaceGeneralJournal)
		journals.PUT("/:journalID/expense", h.replaceExpenseJournal)
		journals.DELETE("/:journalID", h.deleteJournal)
		journals.PUT("/:journalID/attachment", h.setAttachment)
		journals.DELETE("/:journalID/attachment", h.clearAttachment)
	}
}

// bindDraft decodes the general or expense form into a draft. ok is false when a 400 was sent.
func bindDraft(c *gin.Context, logger *slog.Logger, expense bool) (draft domain.Draft, ok bool) {
	if expense {
		var req dto.CreateExpenseJournalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, logger, err, "JSON for expense journal")
			return nil, false
		}
		return req.ToDraft(), true
	}
	var req dto.CreateGeneralJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "JSON for general journal")
		return nil, false
	}
	return req.ToDraft(), true
}

func (h *journalHandler) create(c *gin.Context, expense bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draft, ok := bindDraft(c, logger, expense)
	if !ok {
		return
	}

	journal, err := h.journalService.CommitJournal(c.Request.Context(), draft)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal")
		return
	}

	logger.Info("Journal created successfully", slog.String("journal_id", journal.JournalID), slog.String("kind", string(journal.Kind)))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// createGeneralJournal godoc
// @Summary Create a general journal entry
// @Description Commits an entry whose debit and credit lines are all given explicitly
// @Tags journals
// @Accept json
// @Produce json
// @Param journal body dto.CreateGeneralJournalRequest true "Journal entry"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or account reference"
// @Failure 422 {object} map[string]interface{} "Debits and credits differ"
// @Failure 500 {object} map[string]string "Failed to create journal"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createGeneralJournal(c *gin.Context) {
	h.create(c, false)
}

// createExpenseJournal godoc
// @Summary Create an expense entry
// @Description Commits an expense: one debit per category and one credit to the payment account
// @Tags journals
// @Accept json
// @Produce json
// @Param journal body dto.CreateExpenseJournalRequest true "Expense entry"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or payment account"
// @Failure 500 {object} map[string]string "Failed to create journal"
// @Security BearerAuth
// @Router /journals/expense [post]
func (h *journalHandler) createExpenseJournal(c *gin.Context) {
	h.create(c, true)
}

// getJournal godoc
// @Summary Get a journal entry by ID
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")
	logger = logger.With(slog.String("journal_id", journalID))

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journal entries
// @Description Newest first, filtered by date range and kind, with token-based pagination
// @Tags journals
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param kind query string false "Entry kind" Enums(EXPENSE, GENERAL)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list journals"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query params for ListJournals")
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journals")
		return
	}

	logger.Info("Journals listed successfully", slog.Int("count", len(resp.Journals)))
	c.JSON(http.StatusOK, resp)
}

func (h *journalHandler) replace(c *gin.Context, expense bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")
	logger = logger.With(slog.String("journal_id", journalID))

	draft, ok := bindDraft(c, logger, expense)
	if !ok {
		return
	}

	journal, err := h.journalService.ReplaceJournal(c.Request.Context(), journalID, draft)
	if err != nil {
		respondError(c, logger, err, "Failed to replace journal")
		return
	}

	logger.Info("Journal replaced successfully")
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// replaceGeneralJournal godoc
// @Summary Replace a journal entry
// @Description Validates the new version and swaps it in atomically. The id and creation time are kept.
// @Tags journals
// @Accept json
// @Produce json
// @Param journalID path string true "Journal ID"
// @Param journal body dto.CreateGeneralJournalRequest true "New version of the entry"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or account reference"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 422 {object} map[string]interface{} "Debits and credits differ"
// @Failure 500 {object} map[string]string "Failed to replace journal"
// @Security BearerAuth
// @Router /journals/{journalID} [put]
func (h *journalHandler) replaceGeneralJournal(c *gin.Context) {
	h.replace(c, false)
}

// replaceExpenseJournal godoc
// @Summary Replace a journal entry from the expense form
// @Tags journals
// @Accept json
// @Produce json
// @Param journalID path string true "Journal ID"
// @Param journal body dto.CreateExpenseJournalRequest true "New version of the entry"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid input or payment account"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to replace journal"
// @Security BearerAuth
// @Router /journals/{journalID}/expense [put]
func (h *journalHandler) replaceExpenseJournal(c *gin.Context) {
	h.replace(c, true)
}

// deleteJournal godoc
// @Summary Delete a journal entry
// @Tags journals
// @Param journalID path string true "Journal ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to delete journal"
// @Security BearerAuth
// @Router /journals/{journalID} [delete]
func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")
	logger = logger.With(slog.String("journal_id", journalID))

	if err := h.journalService.DeleteJournal(c.Request.Context(), journalID); err != nil {
		respondError(c, logger, err, "Failed to delete journal")
		return
	}

	logger.Info("Journal deleted successfully")
	c.Status(http.StatusNoContent)
}

// setAttachment godoc
// @Summary Attach a document reference
// @Description Stores the reference as the entry's only attachment, replacing any previous one
// @Tags journals
// @Accept json
// @Produce json
// @Param journalID path string true "Journal ID"
// @Param attachment body dto.SetAttachmentRequest true "Attachment reference"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid reference"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to set attachment"
// @Security BearerAuth
// @Router /journals/{journalID}/attachment [put]
func (h *journalHandler) setAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")
	logger = logger.With(slog.String("journal_id", journalID))

	var req dto.SetAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "JSON for SetAttachment")
		return
	}

	journal, err := h.journalService.SetAttachment(c.Request.Context(), journalID, req.AttachmentRef)
	if err != nil {
		respondError(c, logger, err, "Failed to set attachment")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// clearAttachment godoc
// @Summary Remove the document reference
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to clear attachment"
// @Security BearerAuth
// @Router /journals/{journalID}/attachment [delete]
func (h *journalHandler) clearAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")
	logger = logger.With(slog.String("journal_id", journalID))

	journal, err := h.journalService.ClearAttachment(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, logger, err, "Failed to clear attachment")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}
