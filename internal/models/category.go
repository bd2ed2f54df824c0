package models

// CategoryType represents the kind of transactions a category groups.
// Categories share the transaction kind space, including transfers.
type CategoryType string

const (
	CategoryTypeIncome   CategoryType = "income"
	CategoryTypeExpense  CategoryType = "expense"
	CategoryTypeTransfer CategoryType = "transfer"
)

// Category represents a transaction category: a display name plus an emoji
// glyph and an optional hex color for charts.
type Category struct {
	Base
	UserID string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string       `gorm:"not null" json:"name"`
	Icon   string       `gorm:"not null" json:"icon"`
	Type   CategoryType `gorm:"not null" json:"type"`
	Color  string       `json:"color,omitempty"`
}
