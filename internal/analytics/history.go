package analytics

import (
	"sort"
	"time"

	"folio/internal/models"
)

// ValuePoint is the value of an investment at a point in time.
type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

// ValueHistory replays an investment's transactions in date order. The
// opening value is the current value with every transaction effect undone,
// so the last replayed point always equals the current value. When asOf is
// after the last transaction a closing point at asOf is appended.
func ValueHistory(inv models.Investment, asOf time.Time) []ValuePoint {
	txs := make([]models.Transaction, len(inv.Transactions))
	copy(txs, inv.Transactions)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	var net int64
	for _, tx := range txs {
		net += tx.Type.ValueDelta(tx.Amount)
	}

	start := inv.CreatedAt
	if len(txs) > 0 && (start.IsZero() || txs[0].Date.Before(start)) {
		start = txs[0].Date
	}

	value := inv.CurrentValue - net
	points := make([]ValuePoint, 0, len(txs)+2)
	points = append(points, ValuePoint{Date: start, Value: value})
	for _, tx := range txs {
		delta := tx.Type.ValueDelta(tx.Amount)
		if delta == 0 {
			continue
		}
		value += delta
		points = append(points, ValuePoint{Date: tx.Date, Value: value})
	}

	if last := points[len(points)-1]; asOf.After(last.Date) {
		points = append(points, ValuePoint{Date: asOf, Value: inv.CurrentValue})
	}
	return points
}
