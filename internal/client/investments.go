package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"folio/internal/models"
	"folio/internal/pagination"
)

// NewInvestment is the payload for creating an investment. A nil
// CurrentValue lets the server default it to InitialInvestment.
type NewInvestment struct {
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	InitialInvestment int64    `json:"initial_investment"`
	CurrentValue      *int64   `json:"current_value,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}

// InvestmentPatch carries the fields to change; nil fields are left alone.
type InvestmentPatch struct {
	Name              *string   `json:"name,omitempty"`
	Description       *string   `json:"description,omitempty"`
	InitialInvestment *int64    `json:"initial_investment,omitempty"`
	Currency          *string   `json:"currency,omitempty"`
	Tags              *[]string `json:"tags,omitempty"`
}

// NewTransaction is the payload for recording a transaction. A zero Date
// lets the server stamp the current time.
type NewTransaction struct {
	Date        time.Time
	Amount      int64
	Type        models.TransactionType
	Description string
}

type transactionRequest struct {
	Date        string                 `json:"date,omitempty"`
	Amount      int64                  `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Description string                 `json:"description,omitempty"`
}

// ListInvestmentsPage fetches one page of investments.
func (c *Client) ListInvestmentsPage(ctx context.Context, page, pageSize int, withTransactions bool) (*pagination.PageResponse[models.Investment], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if withTransactions {
		q.Set("include", "transactions")
	}

	var out pagination.PageResponse[models.Investment]
	if err := c.do(ctx, http.MethodGet, "/investments?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvestments walks every page and returns all investments in creation
// order, without transactions.
func (c *Client) ListInvestments(ctx context.Context) ([]models.Investment, error) {
	var all []models.Investment
	for page := 1; ; page++ {
		resp, err := c.ListInvestmentsPage(ctx, page, pagination.MaxPageSize, false)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if !resp.HasNext() {
			break
		}
	}
	if all == nil {
		all = []models.Investment{}
	}
	return all, nil
}

// GetInvestment fetches one investment with its transactions.
func (c *Client) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	var out struct {
		Investment models.Investment `json:"investment"`
	}
	if err := c.do(ctx, http.MethodGet, "/investments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Investment, nil
}

// GetInvestmentTransactions fetches an investment's transactions in date order.
func (c *Client) GetInvestmentTransactions(ctx context.Context, id string) ([]models.Transaction, error) {
	var out struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, "/investments/"+url.PathEscape(id)+"/transactions", nil, &out); err != nil {
		return nil, err
	}
	if out.Transactions == nil {
		out.Transactions = []models.Transaction{}
	}
	return out.Transactions, nil
}

// InvestmentHistory fetches an investment's audit trail, newest first.
// limit <= 0 uses the server default.
func (c *Client) InvestmentHistory(ctx context.Context, id string, limit int) ([]models.AuditLog, error) {
	path := "/investments/" + url.PathEscape(id) + "/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out struct {
		Entries []models.AuditLog `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Entries == nil {
		out.Entries = []models.AuditLog{}
	}
	return out.Entries, nil
}

// CreateInvestment adds an investment and returns the stored row.
func (c *Client) CreateInvestment(ctx context.Context, in NewInvestment) (*models.Investment, error) {
	var out struct {
		Investment models.Investment `json:"investment"`
	}
	if err := c.do(ctx, http.MethodPost, "/investments", in, &out); err != nil {
		return nil, err
	}
	return &out.Investment, nil
}

// UpdateInvestment applies a partial update and returns the stored row.
func (c *Client) UpdateInvestment(ctx context.Context, id string, patch InvestmentPatch) (*models.Investment, error) {
	var out struct {
		Investment models.Investment `json:"investment"`
	}
	if err := c.do(ctx, http.MethodPut, "/investments/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out.Investment, nil
}

// DeleteInvestment removes an investment. Unknown ids succeed.
func (c *Client) DeleteInvestment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/investments/"+url.PathEscape(id), nil, nil)
}

// AddTransaction records a transaction and returns it together with the
// updated investment.
func (c *Client) AddTransaction(ctx context.Context, id string, in NewTransaction) (*models.Transaction, *models.Investment, error) {
	req := transactionRequest{Amount: in.Amount, Type: in.Type, Description: in.Description}
	if !in.Date.IsZero() {
		req.Date = in.Date.Format(time.RFC3339)
	}

	var out struct {
		Transaction models.Transaction `json:"transaction"`
		Investment  models.Investment  `json:"investment"`
	}
	if err := c.do(ctx, http.MethodPost, "/investments/"+url.PathEscape(id)+"/transactions", req, &out); err != nil {
		return nil, nil, err
	}
	if out.Investment.ID == "" {
		return nil, nil, fmt.Errorf("add transaction: response carried no investment")
	}
	return &out.Transaction, &out.Investment, nil
}
