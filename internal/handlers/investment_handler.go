package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
	"folio/internal/services"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// CreateInvestmentRequest represents the request payload for adding an investment.
// current_value defaults to initial_investment when omitted.
type CreateInvestmentRequest struct {
	Name              string   `json:"name" binding:"required,min=1,max=200"`
	Description       string   `json:"description" binding:"max=2000"`
	InitialInvestment *int64   `json:"initial_investment" binding:"required,min=0"`
	CurrentValue      *int64   `json:"current_value" binding:"omitempty,min=0"`
	Currency          string   `json:"currency" binding:"omitempty,iso4217"`
	Tags              []string `json:"tags" binding:"omitempty,tag_list"`
}

// UpdateInvestmentRequest represents a partial update. Omitted fields are
// left unchanged.
type UpdateInvestmentRequest struct {
	Name              *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Description       *string   `json:"description" binding:"omitempty,max=2000"`
	InitialInvestment *int64    `json:"initial_investment" binding:"omitempty,min=0"`
	CurrentValue      *int64    `json:"current_value"`
	Currency          *string   `json:"currency" binding:"omitempty,iso4217"`
	Tags              *[]string `json:"tags" binding:"omitempty,tag_list"`
}

// CreateTransactionRequest represents the request payload for recording a
// transaction. date accepts RFC 3339 or YYYY-MM-DD and defaults to now.
type CreateTransactionRequest struct {
	Date        string                 `json:"date"`
	Amount      *int64                 `json:"amount" binding:"required,min=0"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Description string                 `json:"description" binding:"max=500"`
}

// ListInvestmentsQuery holds list query parameters.
type ListInvestmentsQuery struct {
	pagination.PageRequest
	Include string `form:"include"`
}

// parseTransactionDate accepts the two date shapes clients send.
func parseTransactionDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be RFC 3339 or YYYY-MM-DD")
	}
	return t, nil
}

// ListInvestments returns a page of investments
// @Summary     List investments
// @Description List investments in creation order. include=transactions embeds each history.
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size (max 100)"
// @Param       include query string false "Set to 'transactions' to embed transactions"
// @Success     200 {object} pagination.PageResponse[models.Investment]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /investments [get]
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	var q ListInvestmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.investmentService.ListInvestments(q.PageRequest, q.Include == "transactions")
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvestment returns a single investment with its transactions
// @Summary     Get investment
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} models.Investment
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.GetInvestmentByID(investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// GetInvestmentTransactions returns an investment's transactions in date order
// @Summary     List investment transactions
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {array} models.Transaction
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/transactions [get]
func (h *InvestmentHandler) GetInvestmentTransactions(c *gin.Context) {
	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.investmentService.GetInvestmentTransactions(investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetInvestmentHistory returns the audit trail of an investment, newest first
// @Summary     Investment audit history
// @Description Entries survive deletion of the investment.
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Investment ID"
// @Param       limit query int    false "Maximum entries (default 50, max 200)"
// @Success     200 {array} models.AuditLog
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Router      /investments/{id}/history [get]
func (h *InvestmentHandler) GetInvestmentHistory(c *gin.Context) {
	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
	}

	entries, err := h.auditService.History(models.ResourceInvestment, investmentID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateInvestment adds a new investment
// @Summary     Create investment
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvestmentRequest true "Investment"
// @Success     201 {object} models.Investment
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currentValue := *req.InitialInvestment
	if req.CurrentValue != nil {
		currentValue = *req.CurrentValue
	}

	investment, err := h.investmentService.CreateInvestment(services.CreateInvestmentInput{
		Name:              req.Name,
		Description:       req.Description,
		InitialInvestment: *req.InitialInvestment,
		CurrentValue:      currentValue,
		Currency:          req.Currency,
		Tags:              req.Tags,
	}, getUsername(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:     userID,
		Action:     models.ActionCreateInvestment,
		Resource:   models.ResourceInvestment,
		ResourceID: investment.ID,
		IPAddress:  c.ClientIP(),
		Changes:    map[string]any{"name": investment.Name, "initial_investment": investment.InitialInvestment},
	})

	c.JSON(http.StatusCreated, gin.H{"investment": investment})
}

// UpdateInvestment partially updates an investment
// @Summary     Update investment
// @Description Update name, description, initial investment, currency or tags. current_value only moves through transactions.
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Param       request body UpdateInvestmentRequest true "Fields to change"
// @Success     200 {object} models.Investment
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id} [put]
func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.CurrentValue != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"current_value cannot be edited; record a transaction instead"))
		return
	}

	patch := services.InvestmentPatch{
		Name:              req.Name,
		Description:       req.Description,
		InitialInvestment: req.InitialInvestment,
		Currency:          req.Currency,
		Tags:              req.Tags,
	}
	if patch.IsEmpty() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to update"))
		return
	}

	investment, err := h.investmentService.UpdateInvestment(investmentID, patch, getUsername(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:     userID,
		Action:     models.ActionUpdateInvestment,
		Resource:   models.ResourceInvestment,
		ResourceID: investmentID,
		IPAddress:  c.ClientIP(),
		Changes:    patch.Changes(),
	})

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// DeleteInvestment removes an investment and its transactions
// @Summary     Delete investment
// @Description Deleting an unknown or already deleted investment also succeeds.
// @Tags        investments
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Router      /investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	removed, err := h.investmentService.DeleteInvestment(investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if removed {
		h.auditService.Record(services.AuditEvent{
			UserID:     userID,
			Action:     models.ActionDeleteInvestment,
			Resource:   models.ResourceInvestment,
			ResourceID: investmentID,
			IPAddress:  c.ClientIP(),
		})
	}

	c.Status(http.StatusNoContent)
}

// AddTransaction records a transaction against an investment
// @Summary     Record transaction
// @Description buy adds the amount to current_value, sell subtracts it, dividend and fee leave it unchanged.
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Param       request body CreateTransactionRequest true "Transaction"
// @Success     201 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /investments/{id}/transactions [post]
func (h *InvestmentHandler) AddTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseTransactionDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, investment, err := h.investmentService.AddTransaction(investmentID, services.CreateTransactionInput{
		Date:        date,
		Amount:      *req.Amount,
		Type:        req.Type,
		Description: req.Description,
		CreatedBy:   getUsername(c),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(services.AuditEvent{
		UserID:     userID,
		Action:     models.ActionAddTransaction,
		Resource:   models.ResourceInvestment,
		ResourceID: investmentID,
		IPAddress:  c.ClientIP(),
		Changes:    map[string]any{"transaction_id": transaction.ID, "type": transaction.Type, "amount": transaction.Amount},
	})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction, "investment": investment})
}
