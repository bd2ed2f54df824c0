package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/models"
	"centavo/internal/pagination"
	"centavo/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("income_raises_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		transaction, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID:  cat.ID,
			Type:        models.TransactionTypeIncome,
			Amount:      decimal.NewFromInt(100),
			Description: "Salary",
			Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		})
		testutil.AssertNoError(t, err)

		if transaction.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if transaction.Category.Name != cat.Name {
			t.Errorf("expected preloaded category %s, got %s", cat.Name, transaction.Category.Name)
		}

		all, err := svc.GetAllUserTransactions(user.ID, nil)
		testutil.AssertNoError(t, err)
		if len(all) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(all))
		}
		if !all[0].Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected amount 100, got %s", all[0].Amount)
		}
	})

	t.Run("defaults_date_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		transaction, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID: cat.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(10),
		})
		testutil.AssertNoError(t, err)

		if transaction.Date.IsZero() {
			t.Error("expected date to default to now")
		}
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID: cat.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(-5),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("category_type_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID: cat.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(10),
		})
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("wrong_user_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user2.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user1.ID, TransactionInput{
			CategoryID: cat.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(10),
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("oversized_receipt", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID:   cat.ID,
			Type:         models.TransactionTypeExpense,
			Amount:       decimal.NewFromInt(10),
			ReceiptImage: strings.Repeat("a", maxReceiptImageBytes+1),
		})
		testutil.AssertAppError(t, err, "RECEIPT_TOO_LARGE")
	})

	t.Run("expense_updates_budget_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewTransactionService(db, budgetSvc)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, "2026-08", decimal.NewFromInt(200))

		_, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID: cat.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(75),
			Date:       time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		})
		testutil.AssertNoError(t, err)

		reloaded, err := budgetSvc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if !reloaded.Spent.Equal(decimal.NewFromInt(75)) {
			t.Errorf("expected budget spent 75, got %s", reloaded.Spent)
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("filters_by_type_and_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
		expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		aug := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
		jul := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, income.ID, models.TransactionTypeIncome, decimal.NewFromInt(100), aug)
		testutil.CreateTestTransactionOn(t, db, user.ID, expense.ID, models.TransactionTypeExpense, decimal.NewFromInt(50), aug)
		testutil.CreateTestTransactionOn(t, db, user.ID, expense.ID, models.TransactionTypeExpense, decimal.NewFromInt(30), jul)

		txType := models.TransactionTypeExpense
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{Type: &txType, FromDate: &from})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
	})

	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		old := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		recent := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, cat.ID, models.TransactionTypeExpense, decimal.NewFromInt(1), old)
		testutil.CreateTestTransactionOn(t, db, user.ID, cat.ID, models.TransactionTypeExpense, decimal.NewFromInt(2), recent)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(result.Data))
		}
		if !result.Data[0].Amount.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected newest transaction first, got amount %s", result.Data[0].Amount)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("full_replace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat1 := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		cat2 := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		transaction := testutil.CreateTestTransactionOn(t, db, user.ID, cat1.ID, models.TransactionTypeExpense,
			decimal.NewFromInt(10), time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))

		updated, err := svc.UpdateTransaction(user.ID, transaction.ID, TransactionInput{
			CategoryID:  cat2.ID,
			Type:        models.TransactionTypeExpense,
			Amount:      decimal.NewFromInt(42),
			Description: "Edited",
			Date:        time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		})
		testutil.AssertNoError(t, err)

		if updated.CategoryID != cat2.ID {
			t.Errorf("expected category %s, got %s", cat2.ID, updated.CategoryID)
		}
		if !updated.Amount.Equal(decimal.NewFromInt(42)) {
			t.Errorf("expected amount 42, got %s", updated.Amount)
		}
		if updated.Description != "Edited" {
			t.Errorf("expected description Edited, got %s", updated.Description)
		}
	})

	t.Run("moving_category_refreshes_both_budgets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewTransactionService(db, budgetSvc)
		user := testutil.CreateTestUser(t, db)
		cat1 := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		cat2 := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		budget1 := testutil.CreateTestBudget(t, db, user.ID, cat1.ID, "2026-08", decimal.NewFromInt(100))
		budget2 := testutil.CreateTestBudget(t, db, user.ID, cat2.ID, "2026-08", decimal.NewFromInt(100))

		date := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
		transaction, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID: cat1.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(60),
			Date:       date,
		})
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransaction(user.ID, transaction.ID, TransactionInput{
			CategoryID: cat2.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(60),
			Date:       date,
		})
		testutil.AssertNoError(t, err)

		from, err := budgetSvc.GetBudgetByID(user.ID, budget1.ID)
		testutil.AssertNoError(t, err)
		if !from.Spent.IsZero() {
			t.Errorf("expected old budget spent 0, got %s", from.Spent)
		}

		to, err := budgetSvc.GetBudgetByID(user.ID, budget2.ID)
		testutil.AssertNoError(t, err)
		if !to.Spent.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected new budget spent 60, got %s", to.Spent)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.UpdateTransaction(user.ID, "0198b2c0-0000-7000-8000-000000000000", TransactionInput{
			CategoryID: cat.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(10),
		})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("refreshes_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewTransactionService(db, budgetSvc)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, "2026-08", decimal.NewFromInt(100))

		transaction, err := svc.CreateTransaction(user.ID, TransactionInput{
			CategoryID: cat.ID,
			Type:       models.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(40),
			Date:       time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
		})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, transaction.ID))

		reloaded, err := budgetSvc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if !reloaded.Spent.IsZero() {
			t.Errorf("expected budget spent back to 0, got %s", reloaded.Spent)
		}

		_, err = svc.GetTransactionByID(user.ID, transaction.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewBudgetService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user1.ID, models.CategoryTypeExpense)
		transaction := testutil.CreateTestTransaction(t, db, user1.ID, cat.ID, models.TransactionTypeExpense, decimal.NewFromInt(10))

		err := svc.DeleteTransaction(user2.ID, transaction.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
