package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
)

// transactionOrder is the replay order of an investment's history.
const transactionOrder = "date ASC, created_at ASC"

func preloadTransactions(db *gorm.DB) *gorm.DB {
	return db.Order(transactionOrder)
}

// investmentService handles investment-related business logic.
type investmentService struct {
	db *gorm.DB
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db}
}

// ListInvestments returns a page of investments in creation order.
func (s *investmentService) ListInvestments(page pagination.PageRequest, withTransactions bool) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Investment{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	query := s.db.Order("created_at ASC, id ASC")
	if withTransactions {
		query = query.Preload("Transactions", preloadTransactions)
	}

	var investments []models.Investment
	if err := query.Scopes(pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// AllInvestments returns every investment with its transactions, for aggregation.
func (s *investmentService) AllInvestments() ([]models.Investment, error) {
	var investments []models.Investment
	if err := s.db.Preload("Transactions", preloadTransactions).
		Order("created_at ASC, id ASC").
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if investments == nil {
		investments = []models.Investment{}
	}
	return investments, nil
}

// GetInvestmentByID returns an investment with its transactions preloaded.
func (s *investmentService) GetInvestmentByID(id string) (*models.Investment, error) {
	return s.getInvestment(s.db, id)
}

func (s *investmentService) getInvestment(db *gorm.DB, id string) (*models.Investment, error) {
	var investment models.Investment
	if err := db.Preload("Transactions", preloadTransactions).
		Where("id = ?", id).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// GetInvestmentTransactions returns the transactions of one investment in
// date order.
func (s *investmentService) GetInvestmentTransactions(id string) ([]models.Transaction, error) {
	var count int64
	if err := s.db.Model(&models.Investment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrInvestmentNotFound
	}

	var transactions []models.Transaction
	if err := s.db.Where("investment_id = ?", id).Order(transactionOrder).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// CreateInvestment persists a new investment with an empty history.
func (s *investmentService) CreateInvestment(input CreateInvestmentInput, createdBy string) (*models.Investment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.InitialInvestment < 0 || input.CurrentValue < 0 {
		return nil, apperrors.ErrNegativeAmount
	}

	investment := &models.Investment{
		Name:              name,
		Description:       input.Description,
		InitialInvestment: input.InitialInvestment,
		CurrentValue:      input.CurrentValue,
		Currency:          strings.ToUpper(input.Currency),
		UpdatedBy:         createdBy,
		Tags:              input.Tags,
	}
	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	investment.Transactions = []models.Transaction{}
	return investment, nil
}

// UpdateInvestment applies a partial update. Only the patched columns are
// written, so a concurrent AddTransaction never has its value change
// overwritten.
func (s *investmentService) UpdateInvestment(id string, patch InvestmentPatch, updatedBy string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Where("id = ?", id).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	columns := []string{"updated_by"}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be empty")
		}
		investment.Name = name
		columns = append(columns, "name")
	}
	if patch.Description != nil {
		investment.Description = *patch.Description
		columns = append(columns, "description")
	}
	if patch.InitialInvestment != nil {
		if *patch.InitialInvestment < 0 {
			return nil, apperrors.ErrNegativeAmount
		}
		investment.InitialInvestment = *patch.InitialInvestment
		columns = append(columns, "initial_investment")
	}
	if patch.Currency != nil {
		investment.Currency = strings.ToUpper(*patch.Currency)
		columns = append(columns, "currency")
	}
	if patch.Tags != nil {
		investment.Tags = *patch.Tags
		columns = append(columns, "tags")
	}
	investment.UpdatedBy = updatedBy

	if err := s.db.Model(&investment).Select(columns).Updates(&investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetInvestmentByID(id)
}

// DeleteInvestment soft-deletes an investment and its transactions together.
// Deleting an id that does not exist succeeds; the boolean reports whether
// anything was removed.
func (s *investmentService) DeleteInvestment(id string) (bool, error) {
	removed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Investment{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true

		if err := tx.Where("investment_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// AddTransaction records a transaction and applies its value effect to the
// parent in one database transaction. It returns the new transaction and
// the refreshed investment.
func (s *investmentService) AddTransaction(investmentID string, input CreateTransactionInput) (*models.Transaction, *models.Investment, error) {
	if !input.Type.Valid() {
		return nil, nil, apperrors.ErrInvalidTransactionType
	}
	if input.Amount < 0 {
		return nil, nil, apperrors.ErrNegativeAmount
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		InvestmentID: investmentID,
		Date:         date,
		Amount:       input.Amount,
		Type:         input.Type,
		Description:  input.Description,
		CreatedBy:    input.CreatedBy,
	}

	var investment *models.Investment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"updated_by": input.CreatedBy,
			"updated_at": time.Now(),
		}
		if delta := input.Type.ValueDelta(input.Amount); delta != 0 {
			updates["current_value"] = gorm.Expr("current_value + ?", delta)
		}

		// The parent update doubles as the existence check and takes the
		// row lock before the child row is written.
		result := tx.Model(&models.Investment{}).Where("id = ?", investmentID).UpdateColumns(updates)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInvestmentNotFound
		}

		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var err error
		investment, err = s.getInvestment(tx, investmentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return transaction, investment, nil
}
