// Package reports derives aggregate views from a user's transactions. All
// functions are pure: they take the transaction set as input and never touch
// the database, so the handlers load once and compute everything they need.
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"centavo/internal/models"
)

// Balance summarizes income against expenses. Transfers move money between
// places the user owns, so they affect neither side.
type Balance struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// ComputeBalance totals income and expense transactions.
func ComputeBalance(transactions []models.Transaction) Balance {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case models.TransactionTypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return Balance{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}
}

// CategoryExpense is one category's share of total expenses.
type CategoryExpense struct {
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	CategoryIcon  string          `json:"category_icon"`
	CategoryColor string          `json:"category_color"`
	Total         decimal.Decimal `json:"total"`
	Percentage    float64         `json:"percentage"`
}

// ExpensesByCategory groups expense transactions by category and returns the
// groups sorted by total, largest first. Percentages are of the grand total
// and are zero when there are no expenses at all.
func ExpensesByCategory(transactions []models.Transaction) []CategoryExpense {
	totals := make(map[string]*CategoryExpense)
	grand := decimal.Zero

	for _, t := range transactions {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		entry, ok := totals[t.CategoryID]
		if !ok {
			entry = &CategoryExpense{
				CategoryID:    t.CategoryID,
				CategoryName:  t.Category.Name,
				CategoryIcon:  t.Category.Icon,
				CategoryColor: t.Category.Color,
				Total:         decimal.Zero,
			}
			totals[t.CategoryID] = entry
		}
		entry.Total = entry.Total.Add(t.Amount)
		grand = grand.Add(t.Amount)
	}

	result := make([]CategoryExpense, 0, len(totals))
	for _, entry := range totals {
		if grand.IsPositive() {
			pct, _ := entry.Total.Div(grand).Mul(decimal.NewFromInt(100)).Float64()
			entry.Percentage = pct
		}
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total.Equal(result[j].Total) {
			return result[i].CategoryName < result[j].CategoryName
		}
		return result[i].Total.GreaterThan(result[j].Total)
	})
	return result
}

// MonthPoint is one month in an income/expense time series.
type MonthPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// MonthlySeries builds the income/expense series for the last n months ending
// at ref's month. Months with no transactions appear with zero values.
func MonthlySeries(transactions []models.Transaction, ref time.Time, n int) []MonthPoint {
	if n <= 0 {
		return nil
	}

	type bucket struct {
		income   decimal.Decimal
		expenses decimal.Decimal
	}
	byMonth := make(map[string]*bucket)

	for _, t := range transactions {
		m := t.Month()
		b, ok := byMonth[m]
		if !ok {
			b = &bucket{income: decimal.Zero, expenses: decimal.Zero}
			byMonth[m] = b
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			b.income = b.income.Add(t.Amount)
		case models.TransactionTypeExpense:
			b.expenses = b.expenses.Add(t.Amount)
		}
	}

	// Anchor on the first of the month so AddDate never skips short months.
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)

	series := make([]MonthPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0).Format("2006-01")
		point := MonthPoint{Month: month, Income: decimal.Zero, Expenses: decimal.Zero}
		if b, ok := byMonth[month]; ok {
			point.Income = b.income
			point.Expenses = b.expenses
		}
		series = append(series, point)
	}
	return series
}

// DayPoint is one day's expense total within a month.
type DayPoint struct {
	Day   int             `json:"day"`
	Total decimal.Decimal `json:"total"`
}

// DailySeries totals expenses per day for the month containing ref. Every day
// of the month is present, days without expenses at zero.
func DailySeries(transactions []models.Transaction, ref time.Time) []DayPoint {
	year, month := ref.UTC().Year(), ref.UTC().Month()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	totals := make(map[int]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		d := t.Date.UTC()
		if d.Year() != year || d.Month() != month {
			continue
		}
		day := d.Day()
		totals[day] = totals[day].Add(t.Amount)
	}

	series := make([]DayPoint, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		total, ok := totals[day]
		if !ok {
			total = decimal.Zero
		}
		series = append(series, DayPoint{Day: day, Total: total})
	}
	return series
}
