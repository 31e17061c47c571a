package services

import (
	"time"

	"folio/internal/analytics"
	"folio/internal/models"
	"folio/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string, role models.Role) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	ListUsers() ([]models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	SeedDefaultUsers() (int, error)
}

// CreateInvestmentInput holds the caller-supplied fields of a new investment.
type CreateInvestmentInput struct {
	Name              string
	Description       string
	InitialInvestment int64
	CurrentValue      int64
	Currency          string
	Tags              []string
}

// InvestmentPatch is a partial update; nil fields are left untouched.
// current_value only moves through transactions.
type InvestmentPatch struct {
	Name              *string
	Description       *string
	InitialInvestment *int64
	Currency          *string
	Tags              *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p InvestmentPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.InitialInvestment == nil &&
		p.Currency == nil && p.Tags == nil
}

// Changes lists the new values keyed by column, for the audit trail.
func (p InvestmentPatch) Changes() map[string]any {
	out := map[string]any{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.InitialInvestment != nil {
		out["initial_investment"] = *p.InitialInvestment
	}
	if p.Currency != nil {
		out["currency"] = *p.Currency
	}
	if p.Tags != nil {
		out["tags"] = *p.Tags
	}
	return out
}

// CreateTransactionInput holds the fields of a transaction to record.
type CreateTransactionInput struct {
	Date        time.Time
	Amount      int64
	Type        models.TransactionType
	Description string
	CreatedBy   string
}

// InvestmentServicer defines the contract for investment-related business logic.
type InvestmentServicer interface {
	ListInvestments(page pagination.PageRequest, withTransactions bool) (*pagination.PageResponse[models.Investment], error)
	AllInvestments() ([]models.Investment, error)
	GetInvestmentByID(id string) (*models.Investment, error)
	GetInvestmentTransactions(id string) ([]models.Transaction, error)
	CreateInvestment(input CreateInvestmentInput, createdBy string) (*models.Investment, error)
	UpdateInvestment(id string, patch InvestmentPatch, updatedBy string) (*models.Investment, error)
	DeleteInvestment(id string) (bool, error)
	AddTransaction(investmentID string, input CreateTransactionInput) (*models.Transaction, *models.Investment, error)
}

// ChartKind names a renderable analytics chart.
type ChartKind string

const (
	ChartTags    ChartKind = "tags"
	ChartReturns ChartKind = "returns"
	ChartHistory ChartKind = "history"
)

// PortfolioServicer exposes the derived, never-persisted portfolio views.
type PortfolioServicer interface {
	GetSummary() (*analytics.Summary, error)
	RenderChart(kind ChartKind, investmentID string) ([]byte, error)
	DashboardMarkdown() (string, error)
	DashboardHTML() ([]byte, error)
}

// AuditEvent describes one audited action.
type AuditEvent struct {
	UserID     string
	Action     models.AuditAction
	Resource   models.AuditResource
	ResourceID string
	IPAddress  string
	Changes    map[string]any
}

// AuditServicer records and reads back the audit trail.
type AuditServicer interface {
	Record(ev AuditEvent)
	History(resource models.AuditResource, resourceID string, limit int) ([]models.AuditLog, error)
}
