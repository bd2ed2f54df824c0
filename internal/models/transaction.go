package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of a money movement.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a single recorded money movement. The category is
// preloaded on reads so responses carry the full category snapshot, not just
// its id.
type Transaction struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID   string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Type         TransactionType `gorm:"not null" json:"type"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description  string          `json:"description,omitempty"`
	Date         time.Time       `gorm:"not null;index" json:"date"`
	ReceiptImage string          `gorm:"type:text" json:"receipt_image,omitempty"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// Month returns the transaction's calendar month as a YYYY-MM string,
// the key budgets are matched on.
func (t *Transaction) Month() string {
	return t.Date.UTC().Format("2006-01")
}
