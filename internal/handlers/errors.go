package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pocket_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto a status code and JSON body. fallback is the message
// shown for internal failures, whose details only go to the log.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var (
		unbalanced  *apperrors.UnbalancedEntryError
		importErr   *apperrors.ImportError
		structural  *apperrors.StructuralError
		referential *apperrors.ReferentialError
	)

	switch {
	case errors.As(err, &unbalanced):
		logger.Warn("Journal entry does not balance", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       err.Error(),
			"debitTotal":  unbalanced.DebitTotal,
			"creditTotal": unbalanced.CreditTotal,
		})
	case errors.As(err, &importErr):
		logger.Warn("Import payload rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "import payload rejected", "fields": importErr.Fields})
	case errors.As(err, &structural):
		logger.Warn("Structural validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": structural.Field, "reason": structural.Reason})
	case errors.As(err, &referential):
		logger.Warn("Account reference rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": referential.Field, "reason": referential.Reason})
	case errors.Is(err, apperrors.ErrPayloadParse), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrAccountInUse):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// bindError replies 400 for a request body or query that could not be bound.
func bindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}
