package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle state of a financial goal.
// The only legal transitions are active -> completed and active -> cancelled;
// completed and cancelled are terminal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Goal represents a savings target tracked toward a future amount.
type Goal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color,omitempty"`
	Status        GoalStatus      `gorm:"not null;default:active" json:"status"`
	Description   string          `json:"description,omitempty"`
}

// Remaining returns how much is still missing to reach the target. Never
// negative: an overfunded goal reports zero.
func (g *Goal) Remaining() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Progress returns the funded share of the target as a percentage capped at
// 100. A zero target reports 0.
func (g *Goal) Progress() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).InexactFloat64() * 100
	if pct > 100 {
		return 100
	}
	return pct
}
