package handler

import (
	"github.com/gin-gonic/gin"

	appaccounting "github.com/spark7/backoffice/internal/application/accounting"
)

// DayBookHandler handles manual income/expense day-book API endpoints
type DayBookHandler struct {
	BaseHandler
	service *appaccounting.DayBookService
}

// NewDayBookHandler creates a new DayBookHandler
func NewDayBookHandler(service *appaccounting.DayBookService) *DayBookHandler {
	return &DayBookHandler{service: service}
}

// CreateEntry records a day-book entry and posts its voucher
func (h *DayBookHandler) CreateEntry(c *gin.Context) {
	var req appaccounting.DayBookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	entry, err := h.service.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// UpdateEntry rewrites a same-day day-book entry
func (h *DayBookHandler) UpdateEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid entry id")
		return
	}

	var req appaccounting.DayBookEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	entry, err := h.service.UpdateEntry(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// DeleteEntry removes a same-day entry, reversing its voucher
func (h *DayBookHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid entry id")
		return
	}

	if err := h.service.DeleteEntry(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetEntry returns a single day-book entry
func (h *DayBookHandler) GetEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid entry id")
		return
	}

	entry, err := h.service.GetEntryByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// ListEntries lists day-book entries with filtering and pagination
func (h *DayBookHandler) ListEntries(c *gin.Context) {
	var filter appaccounting.DayBookListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fromDate, err := parseDateQuery(c, "from_date")
	if err != nil {
		h.BadRequest(c, "Invalid from_date")
		return
	}
	toDate, err := parseDateQuery(c, "to_date")
	if err != nil {
		h.BadRequest(c, "Invalid to_date")
		return
	}
	filter.FromDate = fromDate
	filter.ToDate = toDate

	result, err := h.service.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// RegisterRoutes registers day-book routes
func (h *DayBookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	daybook := rg.Group("/accounting/daybook")
	{
		daybook.POST("", h.CreateEntry)
		daybook.GET("", h.ListEntries)
		daybook.GET("/:id", h.GetEntry)
		daybook.PUT("/:id", h.UpdateEntry)
		daybook.DELETE("/:id", h.DeleteEntry)
	}
}
