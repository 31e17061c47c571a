package models

import "time"

// TransactionType is the closed set of events that can be recorded against
// an investment.
type TransactionType string

const (
	TransactionTypeBuy      TransactionType = "buy"
	TransactionTypeSell     TransactionType = "sell"
	TransactionTypeDividend TransactionType = "dividend"
	TransactionTypeFee      TransactionType = "fee"
)

// TransactionTypes lists every valid type.
var TransactionTypes = []TransactionType{
	TransactionTypeBuy,
	TransactionTypeSell,
	TransactionTypeDividend,
	TransactionTypeFee,
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeDividend, TransactionTypeFee:
		return true
	}
	return false
}

// ValueDelta returns how a transaction of this type and amount moves the
// parent investment's current value. Dividends and fees are recorded as
// history only; they are cash flows around the position, not a change in
// what the position is worth.
func (t TransactionType) ValueDelta(amount int64) int64 {
	switch t {
	case TransactionTypeBuy:
		return amount
	case TransactionTypeSell:
		return -amount
	case TransactionTypeDividend, TransactionTypeFee:
		return 0
	}
	return 0
}

// Transaction is a dated event recorded against exactly one investment.
type Transaction struct {
	Base
	InvestmentID string          `gorm:"type:uuid;not null;index" json:"investment_id"`
	Date         time.Time       `gorm:"not null" json:"date"`
	Amount       int64           `gorm:"type:bigint;not null" json:"amount"`
	Type         TransactionType `gorm:"not null" json:"type"`
	Description  string          `json:"description"`
	CreatedBy    string          `json:"created_by"`
}
