package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"centavo/internal/models"
	"centavo/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpdateName(userID, name string) (*models.User, error)
	TouchLastLogin(userID string) error
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, icon string, categoryType models.CategoryType, color string) (*models.Category, error)
	SeedDefaults(userID string) error
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByType(userID string, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, icon string, categoryType models.CategoryType, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionInput carries every user-settable transaction field. Create and
// update both take the full set: an edit is a full replace of all fields
// except the id.
type TransactionInput struct {
	CategoryID   string
	Type         models.TransactionType
	Amount       decimal.Decimal
	Description  string
	Date         time.Time
	ReceiptImage string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAllUserTransactions(userID string, since *time.Time) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetProgress contains spending vs budget data for one budget's month.
type BudgetProgress struct {
	BudgetID   string          `json:"budget_id"`
	Month      string          `json:"month"`
	Budgeted   decimal.Decimal `json:"budgeted"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
//
// RecalculateSpent takes the *gorm.DB so transaction mutations can refresh the
// derived spent column inside their own database transaction.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, amount decimal.Decimal, month string) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, month *string) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, amount *decimal.Decimal, month *string) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
	RecalculateSpent(tx *gorm.DB, userID, categoryID, month string) error
}

// GoalInput carries the user-settable fields of a financial goal.
type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
	StartDate    time.Time
	Icon         string
	Color        string
	Description  string
}

// GoalServicer defines the contract for financial-goal business logic.
type GoalServicer interface {
	CreateGoal(userID string, input GoalInput) (*models.Goal, error)
	GetUserGoals(userID string, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID string, input GoalInput) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
	Contribute(userID, goalID string, amount decimal.Decimal) (*models.Goal, error)
	CompleteGoal(userID, goalID string) (*models.Goal, error)
	CancelGoal(userID, goalID string) (*models.Goal, error)
}
