package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/dto"
	"github.com/SscSPs/pocket_ledger/internal/middleware"
	"github.com/SscSPs/pocket_ledger/internal/utils/dates"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	reportingService portssvc.ReportingService
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, rs portssvc.ReportingService) *accountHandler {
	return &accountHandler{
		accountService:   as,
		reportingService: rs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, reportingService portssvc.ReportingService) {
	h := newAccountHandler(accountService, reportingService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.POST("/:accountID/activate", h.setActive(true))
		accounts.POST("/:accountID/deactivate", h.setActive(false))
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/transactions", h.listAccountTransactions)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account and assigns it the next code for its type
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "An active account of that type and name exists"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "JSON for CreateAccount")
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("account_type", string(req.AccountType)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID), slog.String("code", newAccount.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("target_account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts ordered by code, optionally filtered by type and active flag
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type" Enums(ASSET, LIABILITY, EQUITY, INCOME, EXPENSE)
// @Param   active_only query bool false "Only active accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query params for ListAccounts")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames an account or changes its description. Code and type never change.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Name already used by an active account"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "JSON for UpdateAccount")
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	updatedAccount, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(updatedAccount))
}

// setActive godoc
// @Summary Activate or deactivate an account
// @Description Deactivated accounts keep their code and history but accept no new lines
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Reactivation would duplicate an active name"
// @Failure 500 {object} map[string]string "Failed to change account status"
// @Security BearerAuth
// @Router /accounts/{accountID}/activate [post]
// @Router /accounts/{accountID}/deactivate [post]
func (h *accountHandler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		accountID := c.Param("accountID")
		logger = logger.With(slog.String("target_account_id", accountID), slog.Bool("active", active))

		account, err := h.accountService.SetAccountActive(c.Request.Context(), accountID, active)
		if err != nil {
			respondError(c, logger, err, "Failed to change account status")
			return
		}

		logger.Info("Account status changed")
		c.JSON(http.StatusOK, dto.ToAccountResponse(account))
	}
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Hard-deletes an account that no journal line references
// @Tags accounts
// @Param   accountID path string true "Account ID to delete"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account is referenced by journal lines"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("target_account_id", accountID))

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted successfully")
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Balance signed by the account's normal side, up to an optional cutoff date
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param asOf query string false "Cutoff date (YYYY-MM-DD), inclusive"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to calculate balance"
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	asOfStr := c.Query("asOf")
	asOf, err := dates.ParseOptionalDate(asOfStr)
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", asOfStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.reportingService.AccountBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate balance")
		return
	}

	resp := dto.AccountBalanceResponse{AccountID: accountID, Balance: balance}
	if asOf != nil {
		resp.AsOf = &asOfStr
	}
	c.JSON(http.StatusOK, resp)
}

// listAccountTransactions godoc
// @Summary List an account's journal lines
// @Description Lines in posting order with a running balance carried in from before the range
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListAccountTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "query params for ListAccountTransactions")
		return
	}
	dateRange, err := dates.ParseRange(params.From, params.To)
	if err != nil {
		logger.Warn("Invalid date range", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.reportingService.AccountTransactions(c.Request.Context(), accountID, dateRange)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTransactionsResponse(accountID, entries))
}
