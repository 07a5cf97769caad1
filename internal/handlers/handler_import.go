package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/SscSPs/pocket_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxImportBody bounds the raw payload read from one request.
const maxImportBody = 1 << 20

type importHandler struct {
	journalService portssvc.JournalSvcFacade
}

func registerImportRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, limit gin.HandlerFunc) {
	h := &importHandler{journalService: journalService}
	rg.POST("/imports", limit, h.importJournal)
}

// importJournal godoc
// @Summary Import one expense entry
// @Description Parses a raw import payload, resolves accounts by name and commits it as one entry.
// @Description Unknown keys are rejected; every field problem is reported at once.
// @Tags imports
// @Accept json
// @Produce json
// @Param payload body domain.ImportPayload true "Import payload"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Payload could not be parsed or failed field checks"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to import journal"
// @Security BearerAuth
// @Router /imports [post]
func (h *importHandler) importJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBody))
	if err != nil {
		logger.Warn("Failed to read import body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	journal, err := h.journalService.ImportJournal(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, apperrors.ErrPayloadParse) {
			logger.Warn("Unparseable import payload", slog.String("payload", string(raw)))
		}
		respondError(c, logger, err, "Failed to import journal")
		return
	}

	logger.Info("Journal imported successfully", slog.String("journal_id", journal.JournalID), slog.Int("lines", len(journal.Lines)))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}
