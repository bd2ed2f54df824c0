package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a spending cap for one category in one calendar month.
// Spent is derived from the expense transactions of that category and month;
// it is never edited by the user directly.
type Budget struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Month       string          `gorm:"size:7;not null;index" json:"month"`
	Spent       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"spent"`
	LastUpdated time.Time       `json:"last_updated"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// Progress returns how much of the budget is used, as a percentage capped at
// 100. A zero-amount budget reports 0 to avoid dividing by zero.
func (b *Budget) Progress() float64 {
	if b.Amount.IsZero() {
		return 0
	}
	pct := b.Spent.Div(b.Amount).InexactFloat64() * 100
	if pct > 100 {
		return 100
	}
	return pct
}
