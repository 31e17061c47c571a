package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/models"
)

func tx(date time.Time, typ models.TransactionType, amount int64) models.Transaction {
	return models.Transaction{Date: date, Type: typ, Amount: amount}
}

func TestValueHistory(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := created.AddDate(0, 3, 0)

	inv := investment("fund", 1000, 1300)
	inv.CreatedAt = created
	// Listed out of order on purpose.
	inv.Transactions = []models.Transaction{
		tx(created.AddDate(0, 2, 0), models.TransactionTypeSell, 200),
		tx(created.AddDate(0, 1, 0), models.TransactionTypeBuy, 500),
		tx(created.AddDate(0, 1, 15), models.TransactionTypeDividend, 40),
	}

	points := ValueHistory(inv, asOf)

	require.Len(t, points, 4)
	assert.Equal(t, ValuePoint{Date: created, Value: 1000}, points[0])
	assert.Equal(t, int64(1500), points[1].Value)
	assert.Equal(t, int64(1300), points[2].Value)
	assert.Equal(t, ValuePoint{Date: asOf, Value: 1300}, points[3])
	assert.Len(t, inv.Transactions, 3, "input must not be reordered")
	assert.Equal(t, models.TransactionTypeSell, inv.Transactions[0].Type)
}

func TestValueHistoryNoTransactions(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := investment("fund", 1000, 1000)
	inv.CreatedAt = created

	points := ValueHistory(inv, created.AddDate(0, 0, 30))
	require.Len(t, points, 2)
	assert.Equal(t, int64(1000), points[0].Value)
	assert.Equal(t, int64(1000), points[1].Value)

	points = ValueHistory(inv, created)
	assert.Len(t, points, 1, "no closing point when asOf is not later")
}

func TestValueHistoryBackdatedTransaction(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	early := created.AddDate(0, -1, 0)

	inv := investment("fund", 1000, 1100)
	inv.CreatedAt = created
	inv.Transactions = []models.Transaction{tx(early, models.TransactionTypeBuy, 100)}

	points := ValueHistory(inv, created)

	require.Len(t, points, 3)
	assert.Equal(t, early, points[0].Date)
	assert.Equal(t, int64(1000), points[0].Value)
	assert.Equal(t, int64(1100), points[1].Value)
	assert.Equal(t, int64(1100), points[2].Value)
}
