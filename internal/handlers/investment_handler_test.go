package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "folio/internal/errors"
	"folio/internal/models"
	"folio/internal/pagination"
	"folio/internal/services"
)

// --- mock investment service ---

type mockInvestmentService struct {
	listInvestmentsFn           func(page pagination.PageRequest, withTransactions bool) (*pagination.PageResponse[models.Investment], error)
	allInvestmentsFn            func() ([]models.Investment, error)
	getInvestmentByIDFn         func(id string) (*models.Investment, error)
	getInvestmentTransactionsFn func(id string) ([]models.Transaction, error)
	createInvestmentFn          func(input services.CreateInvestmentInput, createdBy string) (*models.Investment, error)
	updateInvestmentFn          func(id string, patch services.InvestmentPatch, updatedBy string) (*models.Investment, error)
	deleteInvestmentFn          func(id string) (bool, error)
	addTransactionFn            func(id string, input services.CreateTransactionInput) (*models.Transaction, *models.Investment, error)
}

func (m *mockInvestmentService) ListInvestments(page pagination.PageRequest, withTransactions bool) (*pagination.PageResponse[models.Investment], error) {
	if m.listInvestmentsFn != nil {
		return m.listInvestmentsFn(page, withTransactions)
	}
	resp := pagination.NewPageResponse([]models.Investment{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockInvestmentService) AllInvestments() ([]models.Investment, error) {
	if m.allInvestmentsFn != nil {
		return m.allInvestmentsFn()
	}
	return []models.Investment{}, nil
}

func (m *mockInvestmentService) GetInvestmentByID(id string) (*models.Investment, error) {
	if m.getInvestmentByIDFn != nil {
		return m.getInvestmentByIDFn(id)
	}
	return &models.Investment{Base: models.Base{ID: id}}, nil
}

func (m *mockInvestmentService) GetInvestmentTransactions(id string) ([]models.Transaction, error) {
	if m.getInvestmentTransactionsFn != nil {
		return m.getInvestmentTransactionsFn(id)
	}
	return []models.Transaction{}, nil
}

func (m *mockInvestmentService) CreateInvestment(input services.CreateInvestmentInput, createdBy string) (*models.Investment, error) {
	if m.createInvestmentFn != nil {
		return m.createInvestmentFn(input, createdBy)
	}
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) UpdateInvestment(id string, patch services.InvestmentPatch, updatedBy string) (*models.Investment, error) {
	if m.updateInvestmentFn != nil {
		return m.updateInvestmentFn(id, patch, updatedBy)
	}
	return &models.Investment{Base: models.Base{ID: id}}, nil
}

func (m *mockInvestmentService) DeleteInvestment(id string) (bool, error) {
	if m.deleteInvestmentFn != nil {
		return m.deleteInvestmentFn(id)
	}
	return true, nil
}

func (m *mockInvestmentService) AddTransaction(id string, input services.CreateTransactionInput) (*models.Transaction, *models.Investment, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(id, input)
	}
	return &models.Transaction{}, &models.Investment{}, nil
}

var _ services.InvestmentServicer = (*mockInvestmentService)(nil)

const testInvestmentID = "0190a0a0-0000-7000-8000-0000000000bb"

func setupInvestmentRouter(handler *InvestmentHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/investments", handler.ListInvestments)
	auth.POST("/investments", handler.CreateInvestment)
	auth.GET("/investments/:id", handler.GetInvestment)
	auth.PUT("/investments/:id", handler.UpdateInvestment)
	auth.DELETE("/investments/:id", handler.DeleteInvestment)
	auth.GET("/investments/:id/transactions", handler.GetInvestmentTransactions)
	auth.GET("/investments/:id/history", handler.GetInvestmentHistory)
	auth.POST("/investments/:id/transactions", handler.AddTransaction)
	return r
}

func TestInvestmentHandler_ListInvestments(t *testing.T) {
	t.Run("passes paging and include through", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotWith bool
		svc := &mockInvestmentService{
			listInvestmentsFn: func(page pagination.PageRequest, with bool) (*pagination.PageResponse[models.Investment], error) {
				gotPage, gotWith = page, with
				resp := pagination.NewPageResponse([]models.Investment{{Name: "A"}}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments?page=2&page_size=5&include=transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 || !gotWith {
			t.Errorf("unexpected arguments page=%+v with=%v", gotPage, gotWith)
		}
		result := parseJSON(t, rec)
		if result["total_pages"].(float64) != 2 {
			t.Errorf("expected total_pages=2, got %v", result["total_pages"])
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments?page_size=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_GetInvestment(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/"+testInvestmentID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		inv := parseJSON(t, rec)["investment"].(map[string]interface{})
		if inv["id"] != testInvestmentID {
			t.Errorf("expected id %s, got %v", testInvestmentID, inv["id"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockInvestmentService{
			getInvestmentByIDFn: func(string) (*models.Investment, error) {
				return nil, apperrors.ErrInvestmentNotFound
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/"+testInvestmentID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVESTMENT_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestInvestmentHandler_GetInvestmentTransactions(t *testing.T) {
	svc := &mockInvestmentService{
		getInvestmentTransactionsFn: func(id string) ([]models.Transaction, error) {
			return []models.Transaction{{InvestmentID: id, Type: models.TransactionTypeBuy, Amount: 10}}, nil
		},
	}
	r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/investments/"+testInvestmentID+"/transactions", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	txs := parseJSON(t, rec)["transactions"].([]interface{})
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
}

func TestInvestmentHandler_GetInvestmentHistory(t *testing.T) {
	t.Run("returns entries for the investment", func(t *testing.T) {
		var gotLimit int
		audit := &mockAuditService{
			historyFn: func(resource models.AuditResource, id string, limit int) ([]models.AuditLog, error) {
				if resource != models.ResourceInvestment || id != testInvestmentID {
					t.Errorf("unexpected lookup %s/%s", resource, id)
				}
				gotLimit = limit
				return []models.AuditLog{{Action: models.ActionCreateInvestment, ResourceID: id}}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, audit))

		rec := doRequest(r, "GET", "/investments/"+testInvestmentID+"/history?limit=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		entries := parseJSON(t, rec)["entries"].([]interface{})
		if len(entries) != 1 || entries[0].(map[string]interface{})["action"] != "CREATE_INVESTMENT" {
			t.Errorf("unexpected entries %v", entries)
		}
		if gotLimit != 5 {
			t.Errorf("expected limit 5, got %d", gotLimit)
		}
	})

	for _, q := range []string{"?limit=0", "?limit=abc"} {
		t.Run("rejects "+q, func(t *testing.T) {
			r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))
			rec := doRequest(r, "GET", "/investments/"+testInvestmentID+"/history"+q, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestInvestmentHandler_CreateInvestment(t *testing.T) {
	t.Run("returns 201 and defaults current value", func(t *testing.T) {
		var got services.CreateInvestmentInput
		var gotBy string
		svc := &mockInvestmentService{
			createInvestmentFn: func(input services.CreateInvestmentInput, createdBy string) (*models.Investment, error) {
				got, gotBy = input, createdBy
				return &models.Investment{
					Base:              models.Base{ID: testInvestmentID},
					Name:              input.Name,
					InitialInvestment: input.InitialInvestment,
					CurrentValue:      input.CurrentValue,
					Tags:              input.Tags,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, audit))

		rec := doRequest(r, "POST", "/investments",
			`{"name":"Index","initial_investment":10000,"tags":["stocks"],"currency":"cny"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.CurrentValue != 10000 {
			t.Errorf("expected current value to default to 10000, got %d", got.CurrentValue)
		}
		if gotBy != "tester" {
			t.Errorf("expected created by tester, got %q", gotBy)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_INVESTMENT" {
			t.Errorf("expected CREATE_INVESTMENT audit, got %v", audit.actions)
		}
	})

	t.Run("accepts zero initial investment", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments", `{"name":"Gift","initial_investment":0,"current_value":500}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"initial_investment":1}`},
		{"missing initial investment", `{"name":"x"}`},
		{"negative initial investment", `{"name":"x","initial_investment":-1}`},
		{"negative current value", `{"name":"x","initial_investment":1,"current_value":-1}`},
		{"unknown currency", `{"name":"x","initial_investment":1,"currency":"ZZZ"}`},
		{"overlong tag", `{"name":"x","initial_investment":1,"tags":["aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"]}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/investments", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/investments", handler.CreateInvestment)

		rec := doRequest(r, "POST", "/investments", `{"name":"x","initial_investment":1}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_UpdateInvestment(t *testing.T) {
	t.Run("records the changed fields", func(t *testing.T) {
		svc := &mockInvestmentService{
			updateInvestmentFn: func(id string, patch services.InvestmentPatch, _ string) (*models.Investment, error) {
				return &models.Investment{Base: models.Base{ID: id}}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, audit))

		rec := doRequest(r, "PUT", "/investments/"+testInvestmentID, `{"description":"long term"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(audit.events) != 1 {
			t.Fatalf("expected one audit event, got %d", len(audit.events))
		}
		ev := audit.events[0]
		if ev.Action != models.ActionUpdateInvestment || ev.ResourceID != testInvestmentID {
			t.Errorf("unexpected event %+v", ev)
		}
		if len(ev.Changes) != 1 || ev.Changes["description"] != "long term" {
			t.Errorf("expected only the description change, got %v", ev.Changes)
		}
	})

	t.Run("returns 200 and passes only given fields", func(t *testing.T) {
		var got services.InvestmentPatch
		svc := &mockInvestmentService{
			updateInvestmentFn: func(id string, patch services.InvestmentPatch, _ string) (*models.Investment, error) {
				got = patch
				return &models.Investment{Base: models.Base{ID: id}, Name: *patch.Name}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/investments/"+testInvestmentID, `{"name":"Renamed","tags":[]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name == nil || *got.Name != "Renamed" {
			t.Errorf("expected name patch, got %v", got.Name)
		}
		if got.Tags == nil || len(*got.Tags) != 0 {
			t.Errorf("expected explicit empty tag list, got %v", got.Tags)
		}
		if got.Description != nil || got.InitialInvestment != nil || got.Currency != nil {
			t.Error("expected omitted fields to stay nil")
		}
	})

	t.Run("rejects direct current value edits", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/investments/"+testInvestmentID, `{"current_value":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/investments/"+testInvestmentID, `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockInvestmentService{
			updateInvestmentFn: func(string, services.InvestmentPatch, string) (*models.Investment, error) {
				return nil, apperrors.ErrInvestmentNotFound
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/investments/"+testInvestmentID, `{"description":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_DeleteInvestment(t *testing.T) {
	for _, removed := range []bool{true, false} {
		audit := &mockAuditService{}
		svc := &mockInvestmentService{
			deleteInvestmentFn: func(string) (bool, error) { return removed, nil },
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/investments/"+testInvestmentID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204 (removed=%v), got %d", removed, rec.Code)
		}
		if removed != (len(audit.actions) == 1) {
			t.Errorf("expected audit only when something was removed, got %v", audit.actions)
		}
	}
}

func TestInvestmentHandler_AddTransaction(t *testing.T) {
	t.Run("returns 201 with transaction and investment", func(t *testing.T) {
		var got services.CreateTransactionInput
		svc := &mockInvestmentService{
			addTransactionFn: func(id string, input services.CreateTransactionInput) (*models.Transaction, *models.Investment, error) {
				got = input
				return &models.Transaction{InvestmentID: id, Type: input.Type, Amount: input.Amount},
					&models.Investment{Base: models.Base{ID: id}, CurrentValue: 10500}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments/"+testInvestmentID+"/transactions",
			`{"date":"2024-03-01","amount":500,"type":"buy","description":"top up"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", got.Date)
		}
		if got.CreatedBy != "tester" {
			t.Errorf("expected created_by tester, got %q", got.CreatedBy)
		}
		result := parseJSON(t, rec)
		inv := result["investment"].(map[string]interface{})
		if inv["current_value"].(float64) != 10500 {
			t.Errorf("expected current_value 10500, got %v", inv["current_value"])
		}
		if result["transaction"] == nil {
			t.Error("expected transaction in response")
		}
	})

	t.Run("accepts zero amount and RFC 3339 date", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments/"+testInvestmentID+"/transactions",
			`{"date":"2024-03-01T10:00:00Z","amount":0,"type":"fee"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"amount":1,"type":"transfer"}`},
		{"missing amount", `{"type":"buy"}`},
		{"negative amount", `{"amount":-1,"type":"buy"}`},
		{"bad date", `{"amount":1,"type":"buy","date":"01/03/2024"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/investments/"+testInvestmentID+"/transactions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 404 for unknown investment", func(t *testing.T) {
		svc := &mockInvestmentService{
			addTransactionFn: func(string, services.CreateTransactionInput) (*models.Transaction, *models.Investment, error) {
				return nil, nil, apperrors.ErrInvestmentNotFound
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments/"+testInvestmentID+"/transactions", `{"amount":1,"type":"sell"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
