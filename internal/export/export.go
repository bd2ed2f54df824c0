// Package export renders a user's transactions as downloadable CSV or JSON.
// The output formats match the spreadsheet conventions the app's users work
// with: Brazilian-Portuguese headers, dd/mm/yy dates and comma decimals.
package export

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Timeframe restricts an export to a trailing window ending now.
type Timeframe string

const (
	TimeframeAll     Timeframe = "all"
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
	TimeframeYear    Timeframe = "year"
)

// TimeframeStart returns the inclusive lower bound for a timeframe, or nil
// for TimeframeAll.
func TimeframeStart(tf Timeframe, now time.Time) (*time.Time, error) {
	var start time.Time
	switch tf {
	case TimeframeAll, "":
		return nil, nil
	case TimeframeWeek:
		start = now.AddDate(0, 0, -7)
	case TimeframeMonth:
		start = now.AddDate(0, -1, 0)
	case TimeframeQuarter:
		start = now.AddDate(0, -3, 0)
	case TimeframeYear:
		start = now.AddDate(-1, 0, 0)
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "timeframe must be one of: all, week, month, quarter, year")
	}
	return &start, nil
}

// typeLabels maps transaction types to their Portuguese display names.
var typeLabels = map[models.TransactionType]string{
	models.TransactionTypeIncome:   "Receita",
	models.TransactionTypeExpense:  "Despesa",
	models.TransactionTypeTransfer: "Transferência",
}

// Filename builds the download filename for an export generated at ts.
func Filename(format Format, ts time.Time) string {
	return "transacoes_" + ts.Format("2006-01-02") + "." + string(format)
}

// ContentType returns the MIME type for a format.
func ContentType(format Format) string {
	if format == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// quoteField wraps a value in double quotes, doubling embedded quotes.
// An empty value still renders as "".
func quoteField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// CSV renders transactions in the spreadsheet dialect the app's users expect:
// category and description always quoted, the amount bare with a decimal
// comma. Rows are assembled by hand; the bare comma amount makes the dialect
// non-RFC 4180, so encoding/csv cannot produce it.
func CSV(transactions []models.Transaction) ([]byte, error) {
	lines := make([]string, 0, len(transactions)+1)
	lines = append(lines, "Data,Tipo,Categoria,Descrição,Valor")

	for _, t := range transactions {
		amount := strings.ReplaceAll(t.Amount.StringFixed(2), ".", ",")
		lines = append(lines, strings.Join([]string{
			t.Date.UTC().Format("02/01/06"),
			typeLabels[t.Type],
			quoteField(t.Category.Name),
			quoteField(t.Description),
			amount,
		}, ","))
	}

	return []byte(strings.Join(lines, "\n")), nil
}

// jsonRecord is the shape of one transaction in a JSON export.
type jsonRecord struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	CategoryName string `json:"categoryName"`
	CategoryIcon string `json:"categoryIcon"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
}

// JSON renders transactions as an indented JSON array.
func JSON(transactions []models.Transaction) ([]byte, error) {
	records := make([]jsonRecord, 0, len(transactions))
	for _, t := range transactions {
		records = append(records, jsonRecord{
			ID:           t.ID,
			Date:         t.Date.UTC().Format(time.RFC3339),
			Type:         string(t.Type),
			CategoryName: t.Category.Name,
			CategoryIcon: t.Category.Icon,
			Description:  t.Description,
			Amount:       t.Amount.StringFixed(2),
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}
