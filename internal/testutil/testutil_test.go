package testutil_test

import (
	"testing"
	"time"

	"folio/internal/errors"
	"folio/internal/models"
	"folio/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "investments", "transactions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestInvestment(t, first, 100)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	second.Model(&models.Investment{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d investments", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.Role != models.RoleUser {
		t.Errorf("expected role user, got %s", user.Role)
	}

	admin := testutil.CreateTestAdmin(t, db)
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected role admin, got %s", admin.Role)
	}

	inv := testutil.CreateTestInvestment(t, db, 5000, "stocks", " stocks", "bonds")
	if inv.CurrentValue != 5000 || inv.InitialInvestment != 5000 {
		t.Errorf("expected 5000/5000, got %d/%d", inv.InitialInvestment, inv.CurrentValue)
	}
	if len(inv.Tags) != 2 {
		t.Errorf("expected normalized tags [stocks bonds], got %v", inv.Tags)
	}

	tx := testutil.CreateTestTransaction(t, db, inv.ID, models.TransactionTypeBuy, 1000, time.Now())
	if tx.Amount != 1000 || tx.InvestmentID != inv.ID {
		t.Errorf("unexpected transaction %+v", tx)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrInvestmentNotFound, "custom message")
	testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
