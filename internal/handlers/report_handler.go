package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "centavo/internal/errors"
	"centavo/internal/reports"
	"centavo/internal/services"
)

// monthlySeriesLength is how many trailing months the monthly report covers
// when the caller does not ask for a specific window.
const (
	monthlySeriesLength    = 6
	maxMonthlySeriesLength = 24
)

// ReportHandler handles aggregate report requests. Reports are computed over
// the user's full transaction set on every request; nothing is cached.
type ReportHandler struct {
	transactionService services.TransactionServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(transactionService services.TransactionServicer) *ReportHandler {
	return &ReportHandler{transactionService: transactionService}
}

// parseMonthWindow resolves an optional month query parameter into a
// [start, end) filter window. Defaults to the current month.
func parseMonthWindow(c *gin.Context) (time.Time, time.Time, error) {
	month := c.Query("month")
	if month == "" {
		now := time.Now().UTC()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0), nil
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format")
	}
	return start, start.AddDate(0, 1, 0), nil
}

// GetBalance reports total income, expenses and net balance
// @Summary     Balance summary
// @Description Total income, total expenses and net balance over all transactions; transfers count toward neither side
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} reports.Balance "Balance summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/balance [get]
func (h *ReportHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetAllUserTransactions(userID, nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.ComputeBalance(transactions))
}

// GetExpensesByCategory breaks down expenses per category
// @Summary     Expenses by category
// @Description Expense totals grouped by category, largest first, with percentage shares. Covers one month, or everything after an explicit since timestamp.
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM, default current month)"
// @Param       since query string false "Open-ended lower bound (RFC3339 or YYYY-MM-DD); overrides month"
// @Success     200 {array} reports.CategoryExpense "Category breakdown"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/expenses-by-category [get]
func (h *ReportHandler) GetExpensesByCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var start time.Time
	var end *time.Time
	if v := c.Query("since"); v != "" {
		start, err = parseFlexibleTime(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid since format, use RFC3339 or YYYY-MM-DD"))
			return
		}
	} else {
		var monthEnd time.Time
		start, monthEnd, err = parseMonthWindow(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		end = &monthEnd
	}

	transactions, err := h.transactionService.GetAllUserTransactions(userID, &start)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if end != nil {
		inWindow := transactions[:0]
		for _, t := range transactions {
			if t.Date.Before(*end) {
				inWindow = append(inWindow, t)
			}
		}
		transactions = inWindow
	}

	c.JSON(http.StatusOK, reports.ExpensesByCategory(transactions))
}

// GetMonthlySeries reports income vs expenses per month
// @Summary     Monthly income/expense series
// @Description Income and expense totals per month for the trailing months; empty months appear with zeros
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Number of trailing months (default 6, max 24)"
// @Success     200 {array} reports.MonthPoint "Monthly series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthlySeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := monthlySeriesLength
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxMonthlySeriesLength {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 24"))
			return
		}
		months = n
	}

	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	transactions, err := h.transactionService.GetAllUserTransactions(userID, &since)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.MonthlySeries(transactions, now, months))
}

// GetDailySeries reports expense totals per day of one month
// @Summary     Daily expense series
// @Description Expense totals per day for one month; every day of the month is present
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM, default current month)"
// @Success     200 {array} reports.DayPoint "Daily series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/daily [get]
func (h *ReportHandler) GetDailySeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	start, _, err := parseMonthWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetAllUserTransactions(userID, &start)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports.DailySeries(transactions, start))
}
