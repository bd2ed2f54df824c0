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

// maxReceiptImageBytes caps the stored receipt image (a base64 data URL).
const maxReceiptImageBytes = 7 * 1024 * 1024

// transactionService handles transaction-related business logic.
type transactionService struct {
	db      *gorm.DB
	budgets BudgetServicer
}

// NewTransactionService creates a new TransactionServicer. The budget service
// is needed to refresh derived budget spent values after mutations.
func NewTransactionService(db *gorm.DB, budgets BudgetServicer) TransactionServicer {
	return &transactionService{db: db, budgets: budgets}
}

// validateInput checks the user-settable fields and resolves the category,
// enforcing ownership and the category/transaction type match.
func (s *transactionService) validateInput(userID string, input *TransactionInput) (*models.Category, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if len(input.ReceiptImage) > maxReceiptImageBytes {
		return nil, apperrors.ErrReceiptTooLarge
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", input.CategoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if string(category.Type) != string(input.Type) {
		return nil, apperrors.ErrCategoryTypeMismatch
	}

	return &category, nil
}

// recalcPair is one (category, month) pair whose budget spent value must be
// refreshed after a mutation.
type recalcPair struct {
	categoryID string
	month      string
}

// affectedPairs collects the distinct (category, month) pairs touched by a
// mutation. Only expense transactions feed budget spent.
func affectedPairs(txns ...*models.Transaction) []recalcPair {
	seen := make(map[recalcPair]bool)
	var pairs []recalcPair
	for _, t := range txns {
		if t == nil || t.Type != models.TransactionTypeExpense {
			continue
		}
		p := recalcPair{categoryID: t.CategoryID, month: t.Month()}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// CreateTransaction records a new transaction and refreshes the matching
// budget's spent value in the same database transaction.
func (s *transactionService) CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error) {
	category, err := s.validateInput(userID, &input)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:       userID,
		CategoryID:   input.CategoryID,
		Type:         input.Type,
		Amount:       input.Amount,
		Description:  input.Description,
		Date:         input.Date,
		ReceiptImage: input.ReceiptImage,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, p := range affectedPairs(transaction) {
			if err := s.budgets.RecalculateSpent(tx, userID, p.categoryID, p.month); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	transaction.Category = *category
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions,
// newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllUserTransactions returns every transaction for a user, optionally
// restricted to those on or after since. Used by exports and reports, which
// need the full unpaginated set.
func (s *transactionService) GetAllUserTransactions(userID string, since *time.Time) ([]models.Transaction, error) {
	query := s.db.Preload("Category").Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("date >= ?", *since)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction replaces all user-settable fields of a transaction and
// refreshes both the old and new (category, month) budget pairs.
func (s *transactionService) UpdateTransaction(userID, transactionID string, input TransactionInput) (*models.Transaction, error) {
	existing, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	category, err := s.validateInput(userID, &input)
	if err != nil {
		return nil, err
	}

	before := *existing

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"category_id":   input.CategoryID,
			"type":          input.Type,
			"amount":        input.Amount,
			"description":   input.Description,
			"date":          input.Date,
			"receipt_image": input.ReceiptImage,
		}
		if err := tx.Model(existing).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		after := &models.Transaction{
			CategoryID: input.CategoryID,
			Type:       input.Type,
			Date:       input.Date,
		}
		for _, p := range affectedPairs(&before, after) {
			if err := s.budgets.RecalculateSpent(tx, userID, p.categoryID, p.month); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	existing.Category = *category
	return existing, nil
}

// DeleteTransaction permanently removes a transaction and refreshes the
// affected budget.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, p := range affectedPairs(transaction) {
			if err := s.budgets.RecalculateSpent(tx, userID, p.categoryID, p.month); err != nil {
				return err
			}
		}
		return nil
	})
}
