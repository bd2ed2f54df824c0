package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
	"centavo/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// monthWindow returns the [start, end) time window for a YYYY-MM month string.
func monthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// sumExpenses adds up the user's expense transactions for one category and
// month. The sum runs over the fetched rows so decimal arithmetic stays exact
// across database drivers.
func sumExpenses(tx *gorm.DB, userID, categoryID, month string) (decimal.Decimal, error) {
	start, end, err := monthWindow(month)
	if err != nil {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format")
	}

	var transactions []models.Transaction
	if err := tx.Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date < ?",
		userID, categoryID, models.TransactionTypeExpense, start, end).
		Find(&transactions).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent := decimal.Zero
	for _, t := range transactions {
		spent = spent.Add(t.Amount)
	}
	return spent, nil
}

// CreateBudget creates a new budget for a category and month. At most one
// budget may exist per (category, month) pair; the collision is detected by a
// pre-check before anything is written. The initial spent value is computed
// from the expense transactions already recorded for that month.
func (s *budgetService) CreateBudget(userID, categoryID string, amount decimal.Decimal, month string) (*models.Budget, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
	}
	if _, _, err := monthWindow(month); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format")
	}

	// Verify category exists and belongs to user
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Duplicate pre-check: one budget per (category, month)
	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ?", userID, categoryID, month).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrBudgetExists
	}

	spent, err := sumExpenses(s.db, userID, categoryID, month)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Month:       month,
		Spent:       spent,
		LastUpdated: time.Now(),
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget.Category = category
	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets for the user, optionally
// restricted to one month.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, month *string) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if month != nil {
		base = base.Where("month = ?", *month)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget changes a budget's cap amount and/or month. Spent is derived
// and cannot be set by the caller; it is recomputed when the month moves.
func (s *budgetService) UpdateBudget(userID, budgetID string, amount *decimal.Decimal, month *string) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if amount != nil {
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be greater than zero")
		}
		updates["amount"] = *amount
	}

	if month != nil && *month != budget.Month {
		if _, _, err := monthWindow(*month); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format")
		}

		// The (category, month) pair must stay unique
		var count int64
		if err := s.db.Model(&models.Budget{}).
			Where("user_id = ? AND category_id = ? AND month = ? AND id <> ?", userID, budget.CategoryID, *month, budgetID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrBudgetExists
		}

		spent, err := sumExpenses(s.db, userID, budget.CategoryID, *month)
		if err != nil {
			return nil, err
		}
		updates["month"] = *month
		updates["spent"] = spent
		updates["last_updated"] = time.Now()
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress reports spending against the cap for one budget.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	remaining := budget.Amount.Sub(budget.Spent)

	return &BudgetProgress{
		BudgetID:   budget.ID,
		Month:      budget.Month,
		Budgeted:   budget.Amount,
		Spent:      budget.Spent,
		Remaining:  remaining,
		Percentage: budget.Progress(),
	}, nil
}

// RecalculateSpent refreshes the derived spent column of the budget matching
// (category, month), if one exists. Transaction mutations call this for every
// (category, month) pair they touched, inside their own database transaction,
// so spent is recomputed from the known delta instead of reloading the world.
// Recomputing twice with no intervening change is a no-op on the value.
func (s *budgetService) RecalculateSpent(tx *gorm.DB, userID, categoryID, month string) error {
	var budget models.Budget
	if err := tx.Where("user_id = ? AND category_id = ? AND month = ?", userID, categoryID, month).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // no budget to refresh
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spent, err := sumExpenses(tx, userID, categoryID, month)
	if err != nil {
		return err
	}

	if err := tx.Model(&budget).Updates(map[string]interface{}{
		"spent":        spent,
		"last_updated": time.Now(),
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
