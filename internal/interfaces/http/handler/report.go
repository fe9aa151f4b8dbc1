package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appaccounting "github.com/spark7/backoffice/internal/application/accounting"
)

// ReportHandler handles book and financial report API endpoints
type ReportHandler struct {
	BaseHandler
	service *appaccounting.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *appaccounting.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetBook reconstructs the cash or bank book over a period
func (h *ReportHandler) GetBook(c *gin.Context) {
	book := c.Param("book")

	from, to, err := parsePeriodQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	report, err := h.service.BuildBookReport(c.Request.Context(), book, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetTrialBalance builds the trial balance for a period
func (h *ReportHandler) GetTrialBalance(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	report, err := h.service.TrialBalance(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetProfitAndLoss builds the P&L statement for a period
func (h *ReportHandler) GetProfitAndLoss(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	report, err := h.service.ProfitAndLoss(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetBalanceSheet builds the balance sheet as of a date
func (h *ReportHandler) GetBalanceSheet(c *gin.Context) {
	asOfPtr, err := parseDateQuery(c, "as_of")
	if err != nil {
		h.BadRequest(c, "Invalid as_of date")
		return
	}
	asOf := time.Now()
	if asOfPtr != nil {
		asOf = asOfPtr.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	report, err := h.service.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetExpenseReport builds the expense detail report for a period
func (h *ReportHandler) GetExpenseReport(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	report, err := h.service.ExpenseReport(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetIncomeReport builds the income detail report for a period
func (h *ReportHandler) GetIncomeReport(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	report, err := h.service.IncomeReport(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RegisterRoutes registers book and report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounting/books/:book", h.GetBook)

	reports := rg.Group("/accounting/reports")
	{
		reports.GET("/trial-balance", h.GetTrialBalance)
		reports.GET("/profit-loss", h.GetProfitAndLoss)
		reports.GET("/balance-sheet", h.GetBalanceSheet)
		reports.GET("/expense", h.GetExpenseReport)
		reports.GET("/income", h.GetIncomeReport)
	}
}
