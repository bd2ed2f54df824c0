package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn   func(userID string, input services.GoalInput) (*models.Goal, error)
	getUserGoalsFn func(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.Goal], error)
	getGoalByIDFn  func(userID, goalID string) (*models.Goal, error)
	updateGoalFn   func(userID, goalID string, input services.GoalInput) (*models.Goal, error)
	deleteGoalFn   func(userID, goalID string) error
	contributeFn   func(userID, goalID string, amount decimal.Decimal) (*models.Goal, error)
	completeGoalFn func(userID, goalID string) (*models.Goal, error)
	cancelGoalFn   func(userID, goalID string) (*models.Goal, error)
}

func (m *mockGoalService) CreateGoal(userID string, input services.GoalInput) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, input)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.Goal], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page, status)
	}
	resp := pagination.NewPageResponse([]models.Goal{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID string, input services.GoalInput) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, input)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) Contribute(userID, goalID string, amount decimal.Decimal) (*models.Goal, error) {
	if m.contributeFn != nil {
		return m.contributeFn(userID, goalID, amount)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) CompleteGoal(userID, goalID string) (*models.Goal, error) {
	if m.completeGoalFn != nil {
		return m.completeGoalFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) CancelGoal(userID, goalID string) (*models.Goal, error) {
	if m.cancelGoalFn != nil {
		return m.cancelGoalFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

const testGoalID = "0198b2c0-5555-7000-8000-000000000005"

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetGoals)
	auth.GET("/goals/:id", handler.GetGoal)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	auth.POST("/goals/:id/contribute", handler.Contribute)
	auth.POST("/goals/:id/complete", handler.CompleteGoal)
	auth.POST("/goals/:id/cancel", handler.CancelGoal)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		goalSvc := &mockGoalService{
			createGoalFn: func(_ string, input services.GoalInput) (*models.Goal, error) {
				return &models.Goal{
					Base:         models.Base{ID: testGoalID},
					Name:         input.Name,
					TargetAmount: input.TargetAmount,
					Status:       models.GoalStatusActive,
				}, nil
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Reserva de emergência","target_amount":"10000","target_date":"2027-06-30"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["status"] != "active" {
			t.Errorf("expected active status, got %v", result["status"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"target_amount":"10000"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad target_date", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Viagem","target_amount":"5000","target_date":"junho"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_GetGoals(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		var gotStatus *models.GoalStatus
		goalSvc := &mockGoalService{
			getUserGoalsFn: func(_ string, _ pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.Goal], error) {
				gotStatus = status
				resp := pagination.NewPageResponse([]models.Goal{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals?status=completed", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotStatus == nil || *gotStatus != models.GoalStatusCompleted {
			t.Error("expected completed status filter")
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals?status=paused", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_Contribute(t *testing.T) {
	t.Run("returns updated goal", func(t *testing.T) {
		goalSvc := &mockGoalService{
			contributeFn: func(_, goalID string, amount decimal.Decimal) (*models.Goal, error) {
				return &models.Goal{
					Base:          models.Base{ID: goalID},
					CurrentAmount: amount,
					Status:        models.GoalStatusActive,
				}, nil
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contribute", `{"amount":"250.00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 when missing amount", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contribute", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when contribution exceeds remaining", func(t *testing.T) {
		goalSvc := &mockGoalService{
			contributeFn: func(string, string, decimal.Decimal) (*models.Goal, error) {
				return nil, apperrors.ErrContributionTooLarge
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contribute", `{"amount":"999999"}`)

		if rec.Code != apperrors.ErrContributionTooLarge.StatusCode {
			t.Fatalf("expected %d, got %d", apperrors.ErrContributionTooLarge.StatusCode, rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CONTRIBUTION_TOO_LARGE")
	})

	t.Run("returns 409 when goal not active", func(t *testing.T) {
		goalSvc := &mockGoalService{
			contributeFn: func(string, string, decimal.Decimal) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotActive
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contribute", `{"amount":"10"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_ACTIVE")
	})
}

func TestGoalHandler_StatusTransitions(t *testing.T) {
	t.Run("complete returns completed goal", func(t *testing.T) {
		goalSvc := &mockGoalService{
			completeGoalFn: func(_, goalID string) (*models.Goal, error) {
				return &models.Goal{Base: models.Base{ID: goalID}, Status: models.GoalStatusCompleted}, nil
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/complete", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["status"] != "completed" {
			t.Errorf("expected completed, got %v", result["status"])
		}
	})

	t.Run("cancel on finished goal returns 409", func(t *testing.T) {
		goalSvc := &mockGoalService{
			cancelGoalFn: func(string, string) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotActive
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/cancel", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("complete on missing goal returns 404", func(t *testing.T) {
		goalSvc := &mockGoalService{
			completeGoalFn: func(string, string) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewGoalHandler(goalSvc)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/complete", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
