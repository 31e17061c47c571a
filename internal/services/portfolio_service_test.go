package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"folio/internal/models"
	"folio/internal/testutil"
)

func TestGetSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	invSvc := NewInvestmentService(db)
	svc := NewPortfolioService(invSvc)

	a := testutil.CreateTestInvestment(t, db, 10000, "x", "y")
	testutil.CreateTestInvestment(t, db, 5000, "y")
	_, _, err := invSvc.AddTransaction(a.ID, CreateTransactionInput{Amount: 2000, Type: models.TransactionTypeBuy})
	testutil.AssertNoError(t, err)

	summary, err := svc.GetSummary()
	testutil.AssertNoError(t, err)

	if summary.TotalInvested != 15000 {
		t.Errorf("expected total invested 15000, got %d", summary.TotalInvested)
	}
	if summary.TotalCurrentValue != 17000 {
		t.Errorf("expected total current value 17000, got %d", summary.TotalCurrentValue)
	}
	if summary.TotalProfit != 2000 {
		t.Errorf("expected total profit 2000, got %d", summary.TotalProfit)
	}
	if len(summary.Tags) != 2 || summary.Tags[1].Tag != "y" || summary.Tags[1].Total != 17000 {
		t.Errorf("unexpected tag totals %+v", summary.Tags)
	}
}

func TestRenderChart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	invSvc := NewInvestmentService(db)
	svc := &portfolioService{investments: invSvc, now: func() time.Time { return time.Now().Add(24 * time.Hour) }}

	t.Run("empty_portfolio", func(t *testing.T) {
		_, err := svc.RenderChart(ChartTags, "")
		testutil.AssertAppError(t, err, "NOT_ENOUGH_HISTORY")
	})

	inv := testutil.CreateTestInvestment(t, db, 10000, "stocks")
	testutil.CreateTestInvestment(t, db, 3000, "bonds")

	for _, kind := range []ChartKind{ChartTags, ChartReturns, ChartHistory} {
		t.Run(string(kind), func(t *testing.T) {
			data, err := svc.RenderChart(kind, "")
			testutil.AssertNoError(t, err)
			if !bytes.HasPrefix(data, []byte("\x89PNG")) {
				t.Error("expected PNG output")
			}
		})
	}

	t.Run("history_single", func(t *testing.T) {
		data, err := svc.RenderChart(ChartHistory, inv.ID)
		testutil.AssertNoError(t, err)
		if len(data) == 0 {
			t.Error("expected chart data")
		}
	})

	t.Run("history_unknown_investment", func(t *testing.T) {
		_, err := svc.RenderChart(ChartHistory, missingID)
		testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")
	})

	t.Run("unknown_kind", func(t *testing.T) {
		_, err := svc.RenderChart(ChartKind("radar"), "")
		testutil.AssertAppError(t, err, "UNKNOWN_CHART")
	})
}

func TestDashboardReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(NewInvestmentService(db))

	testutil.CreateTestInvestment(t, db, 10000, "stocks")

	md, err := svc.DashboardMarkdown()
	testutil.AssertNoError(t, err)
	if !strings.Contains(md, "# Portfolio dashboard") || !strings.Contains(md, "| stocks | 1 |") {
		t.Errorf("unexpected markdown:\n%s", md)
	}

	page, err := svc.DashboardHTML()
	testutil.AssertNoError(t, err)
	if !bytes.Contains(page, []byte("<h1>Portfolio dashboard</h1>")) {
		t.Errorf("unexpected html:\n%s", page)
	}
}
