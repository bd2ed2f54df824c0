package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(userID, categoryID string, amount decimal.Decimal, month string) (*models.Budget, error)
	getUserBudgetsFn    func(userID string, page pagination.PageRequest, month *string) (*pagination.PageResponse[models.Budget], error)
	getBudgetByIDFn     func(userID, budgetID string) (*models.Budget, error)
	updateBudgetFn      func(userID, budgetID string, amount *decimal.Decimal, month *string) (*models.Budget, error)
	deleteBudgetFn      func(userID, budgetID string) error
	getBudgetProgressFn func(userID, budgetID string) (*services.BudgetProgress, error)
}

func (m *mockBudgetService) CreateBudget(userID, categoryID string, amount decimal.Decimal, month string) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, categoryID, amount, month)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID string, page pagination.PageRequest, month *string) (*pagination.PageResponse[models.Budget], error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, page, month)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID string, amount *decimal.Decimal, month *string) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, amount, month)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetProgress(userID, budgetID string) (*services.BudgetProgress, error) {
	if m.getBudgetProgressFn != nil {
		return m.getBudgetProgressFn(userID, budgetID)
	}
	return &services.BudgetProgress{}, nil
}

func (m *mockBudgetService) RecalculateSpent(_ *gorm.DB, _, _, _ string) error {
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

const testBudgetID = "0198b2c0-4444-7000-8000-000000000004"

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	auth.GET("/budgets/:id/progress", handler.GetBudgetProgress)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(_, categoryID string, amount decimal.Decimal, month string) (*models.Budget, error) {
				return &models.Budget{
					Base:       models.Base{ID: testBudgetID},
					CategoryID: categoryID,
					Amount:     amount,
					Month:      month,
				}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":"`+testCategoryID+`","amount":"200.00","month":"2026-08"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["month"] != "2026-08" {
			t.Errorf("expected month 2026-08, got %v", result["month"])
		}
	})

	t.Run("returns 400 on bad month format", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":"`+testCategoryID+`","amount":"200","month":"2026-13"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on malformed category id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":"groceries","amount":"200","month":"2026-08"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			createBudgetFn: func(string, string, decimal.Decimal, string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetExists
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":"`+testCategoryID+`","amount":"200","month":"2026-08"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_EXISTS")
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("passes month filter through", func(t *testing.T) {
		var gotMonth *string
		budgetSvc := &mockBudgetService{
			getUserBudgetsFn: func(_ string, _ pagination.PageRequest, month *string) (*pagination.PageResponse[models.Budget], error) {
				gotMonth = month
				resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?month=2026-08", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotMonth == nil || *gotMonth != "2026-08" {
			t.Error("expected month filter 2026-08")
		}
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("only sends provided fields", func(t *testing.T) {
		var gotAmount *decimal.Decimal
		var gotMonth *string
		budgetSvc := &mockBudgetService{
			updateBudgetFn: func(_, _ string, amount *decimal.Decimal, month *string) (*models.Budget, error) {
				gotAmount = amount
				gotMonth = month
				return &models.Budget{Base: models.Base{ID: testBudgetID}}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"amount":"350.00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotAmount == nil || !gotAmount.Equal(decimal.RequireFromString("350.00")) {
			t.Error("expected amount 350.00")
		}
		if gotMonth != nil {
			t.Errorf("expected month untouched, got %v", *gotMonth)
		}
	})

	t.Run("returns 400 on bad month", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"month":"agosto"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			updateBudgetFn: func(string, string, *decimal.Decimal, *string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"amount":"10"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudgetProgress(t *testing.T) {
	t.Run("returns progress payload", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getBudgetProgressFn: func(_, budgetID string) (*services.BudgetProgress, error) {
				return &services.BudgetProgress{
					BudgetID:   budgetID,
					Month:      "2026-08",
					Budgeted:   decimal.NewFromInt(200),
					Spent:      decimal.NewFromInt(50),
					Remaining:  decimal.NewFromInt(150),
					Percentage: 25,
				}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID+"/progress", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["percentage"] != float64(25) {
			t.Errorf("expected percentage 25, got %v", result["percentage"])
		}
		if result["remaining"] != "150" {
			t.Errorf("expected remaining 150, got %v", result["remaining"])
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/not-a-uuid/progress", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
