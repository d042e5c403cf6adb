// @title           Portfolio Tracker API
// @version         1.0
// @description     API for tracking cash, stock and crypto positions with balance history

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	appinterfaces "main/internal/application/interfaces"
	appaccounts "main/internal/application/service/accounts"
	appdemo "main/internal/application/service/demo"
	appsnapshots "main/internal/application/service/snapshots"
	apptransactions "main/internal/application/service/transactions"
	domain "main/internal/domain/entity/portfolio"
	domaininterfaces "main/internal/domain/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	accountsBasePath     = "/api/v1/accounts"
	transactionsBasePath = "/api/v1/transactions"
	demoBasePath         = "/api/v1/demo"
)

var errMissingID = errors.New("missing id")

type Handler struct {
	router       *gin.Engine
	accounts     *appaccounts.Service
	transactions *apptransactions.Service
	snapshots    *appsnapshots.Service
	demo         *appdemo.Service
	cache        *redis.Client
	cacheTTL     time.Duration
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

func NewHandler(accounts *appaccounts.Service, transactions *apptransactions.Service, snapshots *appsnapshots.Service, demo *appdemo.Service, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:       router,
		accounts:     accounts,
		transactions: transactions,
		snapshots:    snapshots,
		demo:         demo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	acc := h.router.Group(accountsBasePath)
	if h.cache != nil {
		acc.Use(h.cacheMiddleware())
	}
	{
		acc.GET("/", h.listAccounts)
		acc.POST("/", h.createAccount)
		acc.GET("/:id", h.getAccount)
		acc.GET("/:id/with-transactions", h.getAccountWithTransactions)
		acc.PUT("/:id/cash", h.updateCashBalance)
		acc.PUT("/:id/cash/adjust", h.adjustCash)
		acc.DELETE("/:id", h.deleteAccount)

		acc.GET("/:id/transactions", h.listAccountTransactions)
		acc.GET("/:id/holdings", h.getHoldings)
		acc.GET("/:id/snapshots", h.getSnapshotHistory)
		acc.POST("/:id/snapshots", h.recordSnapshot)
	}

	tx := h.router.Group(transactionsBasePath)
	if h.cache != nil {
		tx.Use(h.cacheMiddleware())
	}
	{
		tx.GET("/", h.listTransactions)
		tx.POST("/", h.createTransaction)
		tx.GET("/:id", h.getTransaction)
	}

	demo := h.router.Group(demoBasePath)
	{
		demo.GET("/", h.getDemoAccount)
		demo.POST("/seed", h.seedDemo)
		demo.DELETE("/reset", h.resetDemo)
	}
}

// Account handlers

// listAccounts lists all accounts
// @Summary      List accounts
// @Description  List all portfolio accounts
// @Tags         accounts
// @Produce      json
// @Success      200  {array}   portfolio.Account
// @Failure      500  {object}  map[string]string
// @Router       /accounts [get]
func (h *Handler) listAccounts(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// createAccount creates a new account
// @Summary      Create account
// @Description  Create a portfolio account with an optional starting cash balance
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account  body      createAccountPayload  true  "Account data"
// @Success      201      {object}  portfolio.Account
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /accounts [post]
func (h *Handler) createAccount(c *gin.Context) {
	var payload createAccountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	initialBalance := decimal.Zero
	if payload.InitialBalance != nil {
		initialBalance = *payload.InitialBalance
	}
	account, err := h.accounts.Create(c.Request.Context(), payload.Name, initialBalance)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// getAccount retrieves an account by id
// @Summary      Get account
// @Description  Get a portfolio account by id
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  portfolio.Account
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id} [get]
func (h *Handler) getAccount(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// getAccountWithTransactions retrieves an account with its history
// @Summary      Get account with transactions
// @Description  Get a portfolio account together with its transaction history
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  portfolio.Account
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/with-transactions [get]
func (h *Handler) getAccountWithTransactions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	account, err := h.accounts.GetWithTransactions(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// updateCashBalance replaces the cash balance
// @Summary      Update cash balance
// @Description  Set the account cash balance to a new value
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Account ID"
// @Param        cash  body      updateCashPayload  true  "New balance"
// @Success      200   {object}  portfolio.Account
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /accounts/{id}/cash [put]
func (h *Handler) updateCashBalance(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	var payload updateCashPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	account, err := h.accounts.UpdateCashBalance(c.Request.Context(), id, payload.NewBalance)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// adjustCash applies a signed delta to the cash balance
// @Summary      Adjust cash
// @Description  Add or withdraw cash; adjustments below zero are refused
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id      path      string             true  "Account ID"
// @Param        amount  body      adjustCashPayload  true  "Signed amount"
// @Success      200     {object}  portfolio.Account
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /accounts/{id}/cash/adjust [put]
func (h *Handler) adjustCash(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	var payload adjustCashPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	account, err := h.accounts.AdjustCash(c.Request.Context(), id, payload.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// deleteAccount deletes an account
// @Summary      Delete account
// @Description  Delete an account and its snapshots; accounts with transactions are refused
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      204  "No Content"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /accounts/{id} [delete]
func (h *Handler) deleteAccount(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transaction handlers

// listTransactions lists transactions
// @Summary      List transactions
// @Description  List all transactions, optionally filtered by symbol
// @Tags         transactions
// @Produce      json
// @Param        symbol  query     string  false  "Filter by symbol"
// @Success      200     {array}   portfolio.Transaction
// @Failure      500     {object}  map[string]string
// @Router       /transactions [get]
func (h *Handler) listTransactions(c *gin.Context) {
	var (
		transactions []domain.Transaction
		err          error
	)
	if symbol := c.Query("symbol"); symbol != "" {
		transactions, err = h.transactions.ListBySymbol(c.Request.Context(), symbol)
	} else {
		transactions, err = h.transactions.List(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// createTransaction records a buy or sell
// @Summary      Create transaction
// @Description  Record a buy or sell transaction for an account
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction  body      createTransactionPayload  true  "Transaction data"
// @Success      201          {object}  portfolio.Transaction
// @Failure      400          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /transactions [post]
func (h *Handler) createTransaction(c *gin.Context) {
	var payload createTransactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	transaction, err := payload.toDomain()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	transaction, err = h.transactions.Create(c.Request.Context(), transaction)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// getTransaction retrieves a transaction by id
// @Summary      Get transaction
// @Description  Get a transaction by id
// @Tags         transactions
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  portfolio.Transaction
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /transactions/{id} [get]
func (h *Handler) getTransaction(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	transaction, err := h.transactions.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// listAccountTransactions lists an account's transactions
// @Summary      List account transactions
// @Description  List all transactions of an account, newest first
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {array}   portfolio.Transaction
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /accounts/{id}/transactions [get]
func (h *Handler) listAccountTransactions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	transactions, err := h.transactions.ListByAccount(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// getHoldings derives current positions for an account
// @Summary      Get holdings
// @Description  Derive current positions from the account's transaction history
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {array}   holdingResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/holdings [get]
func (h *Handler) getHoldings(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	holdings, err := h.transactions.Holdings(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := make([]holdingResponse, 0, len(holdings))
	for _, holding := range holdings {
		response = append(response, holdingResponse{
			Symbol:       holding.Symbol,
			Quantity:     holding.Quantity,
			AveragePrice: holding.AverageCost,
			AssetType:    holding.AssetClass,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Snapshot handlers

// recordSnapshot records a balance snapshot
// @Summary      Record snapshot
// @Description  Persist a point-in-time valuation, or return the latest one when it is under an hour old
// @Tags         snapshots
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  snapshotResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/snapshots [post]
func (h *Handler) recordSnapshot(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	snapshot, err := h.snapshots.Record(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotResponse(*snapshot))
}

// getSnapshotHistory lists snapshots for charting
// @Summary      Get snapshot history
// @Description  List balance snapshots for an account, oldest first
// @Tags         snapshots
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {array}   snapshotResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/snapshots [get]
func (h *Handler) getSnapshotHistory(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	snapshots, err := h.snapshots.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := make([]snapshotResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		response = append(response, toSnapshotResponse(snapshot))
	}
	c.JSON(http.StatusOK, response)
}

// Demo data handlers

// getDemoAccount finds the seeded demo account
// @Summary      Get demo account
// @Tags         demo
// @Produce      json
// @Success      200  {object}  portfolio.Account
// @Failure      404  {object}  map[string]string
// @Router       /demo [get]
func (h *Handler) getDemoAccount(c *gin.Context) {
	account, err := h.demo.Find(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// seedDemo seeds the demo portfolio
// @Summary      Seed demo data
// @Description  Create the demo account with thirty days of transactions and snapshots
// @Tags         demo
// @Produce      json
// @Success      201  {object}  portfolio.Account
// @Failure      500  {object}  map[string]string
// @Router       /demo/seed [post]
func (h *Handler) seedDemo(c *gin.Context) {
	account, err := h.demo.Seed(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// resetDemo removes the demo portfolio
// @Summary      Reset demo data
// @Tags         demo
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /demo/reset [delete]
func (h *Handler) resetDemo(c *gin.Context) {
	if err := h.demo.Reset(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Helpers

type createAccountPayload struct {
	Name           string           `json:"name" binding:"required"`
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
}

type updateCashPayload struct {
	NewBalance decimal.Decimal `json:"newBalance"`
}

type adjustCashPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

type createTransactionPayload struct {
	AccountID  string          `json:"accountId" binding:"required"`
	Symbol     string          `json:"symbol" binding:"required"`
	Type       string          `json:"type" binding:"required"`
	AssetType  string          `json:"assetType" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Notes      string          `json:"notes,omitempty"`
	ExecutedAt *time.Time      `json:"transactionDate,omitempty"`
}

func (p createTransactionPayload) toDomain() (*domain.Transaction, error) {
	accountID, err := uuid.Parse(p.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id: %w", err)
	}
	kind, err := domain.NewTransactionKind(p.Type)
	if err != nil {
		return nil, err
	}
	assetClass, err := domain.NewAssetClass(p.AssetType)
	if err != nil {
		return nil, err
	}
	transaction := &domain.Transaction{
		AccountID:  accountID,
		Symbol:     p.Symbol,
		Kind:       kind,
		AssetClass: assetClass,
		Quantity:   p.Quantity,
		Price:      p.Price,
		Notes:      p.Notes,
	}
	if p.ExecutedAt != nil {
		transaction.ExecutedAt = *p.ExecutedAt
	}
	return transaction, nil
}

// holdingResponse is the wire shape of a derived position.
type holdingResponse struct {
	Symbol       string            `json:"symbol"`
	Quantity     decimal.Decimal   `json:"quantity"`
	AveragePrice decimal.Decimal   `json:"averagePrice"`
	AssetType    domain.AssetClass `json:"assetType"`
}

// snapshotResponse is the wire shape of a balance snapshot.
type snapshotResponse struct {
	TotalValue   decimal.Decimal `json:"totalValue"`
	SnapshotDate time.Time       `json:"snapshotDate"`
}

func toSnapshotResponse(snapshot domain.BalanceSnapshot) snapshotResponse {
	return snapshotResponse{
		TotalValue:   snapshot.TotalValue,
		SnapshotDate: snapshot.RecordedAt,
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errMissingID
	}
	return id, nil
}

// respondError translates service errors into HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domaininterfaces.ErrAccountNotFound),
		errors.Is(err, domaininterfaces.ErrTransactionNotFound),
		errors.Is(err, domaininterfaces.ErrSnapshotNotFound):
		writeError(c, http.StatusNotFound, err)
	case errors.Is(err, domaininterfaces.ErrAccountHasTransactions):
		writeError(c, http.StatusConflict, err)
	case errors.Is(err, appaccounts.ErrBlankName),
		errors.Is(err, appaccounts.ErrNegativeBalance),
		errors.Is(err, appaccounts.ErrInsufficientCash),
		errors.Is(err, apptransactions.ErrBlankSymbol),
		errors.Is(err, apptransactions.ErrNonPositiveAmount):
		writeError(c, http.StatusBadRequest, err)
	default:
		writeError(c, http.StatusInternalServerError, err)
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.Request.URL.Path, c.Request.URL.RawQuery)
}
