package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pocket_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/SscSPs/pocket_ledger/internal/middleware"
	"github.com/SscSPs/pocket_ledger/internal/utils/dates"
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
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/expenses", h.getExpenseAggregate)
		reportingGroup.GET("/net-assets", h.getNetAssetsSeries)
	}
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Asset and liability balances as of a date; all time when asOf is omitted
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOfStr := c.Query("asOf")
	asOf, err := dates.ParseOptionalDate(asOfStr)
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", asOfStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet report")
		return
	}

	logger.Info("Balance sheet report generated successfully",
		slog.Int("asset_count", len(report.Assets)),
		slog.Int("liability_count", len(report.Liabilities)))
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOf))
}

// bindSeries parses the shared range and granularity parameters. ok is false when a 400 was sent.
func bindSeries(c *gin.Context, logger *slog.Logger) (domain.DateRange, domain.Granularity, bool) {
	var params dto.SeriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query params for report")
		return domain.DateRange{}, "", false
	}
	dateRange, err := dates.ParseRange(params.From, params.To)
	if err != nil {
		logger.Warn("Invalid date range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.DateRange{}, "", false
	}
	granularity, err := domain.ParseGranularity(params.Granularity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.DateRange{}, "", false
	}
	return dateRange, granularity, true
}

// getExpenseAggregate godoc
// @Summary Expense trend by category
// @Description Sums expense lines per day or month and category; refunds reduce the bucket
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param granularity query string false "Bucket size" Enums(day, month) default(month)
// @Success 200 {object} dto.ExpenseAggregateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/expenses [get]
func (h *reportingHandler) getExpenseAggregate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dateRange, granularity, ok := bindSeries(c, logger)
	if !ok {
		return
	}

	buckets, err := h.reportingService.ExpenseAggregate(c.Request.Context(), dateRange, granularity)
	if err != nil {
		respondError(c, logger, err, "Failed to generate expense report")
		return
	}
	c.JSON(http.StatusOK, dto.ExpenseAggregateResponse{Granularity: granularity, Buckets: buckets})
}

// getNetAssetsSeries godoc
// @Summary Net assets over time
// @Description Point-in-time assets, liabilities and net at the end of every day or month
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param granularity query string false "Bucket size" Enums(day, month) default(month)
// @Success 200 {object} dto.NetAssetsSeriesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/net-assets [get]
func (h *reportingHandler) getNetAssetsSeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dateRange, granularity, ok := bindSeries(c, logger)
	if !ok {
		return
	}

	points, err := h.reportingService.NetAssetsSeries(c.Request.Context(), dateRange, granularity)
	if err != nil {
		respondError(c, logger, err, "Failed to generate net assets report")
		return
	}
	c.JSON(http.StatusOK, dto.NetAssetsSeriesResponse{Granularity: granularity, Points: points})
}
