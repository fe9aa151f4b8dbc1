package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsales "github.com/spark7/backoffice/internal/application/sales"
)

// SalesHandler handles sales invoice API endpoints
type SalesHandler struct {
	BaseHandler
	service *appsales.SalesService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(service *appsales.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

// CreateSale creates a draft sale, or posts it immediately
func (h *SalesHandler) CreateSale(c *gin.Context) {
	var req appsales.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	req.Role = getRole(c)
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	sale, err := h.service.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// PostSale transitions a draft sale to posted
func (h *SalesHandler) PostSale(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	var req appsales.PostSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	sale, err := h.service.PostSale(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// EditSale rewrites a posted sale's item set
func (h *SalesHandler) EditSale(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	var req appsales.EditSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	req.Role = getRole(c)
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	sale, err := h.service.EditPostedSale(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// AddPayment records a payment against a posted sale
func (h *SalesHandler) AddPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	var req appsales.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	sale, err := h.service.AddPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// ApproveSale records a privileged approval for an over-ceiling discount
func (h *SalesHandler) ApproveSale(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	approverID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sale, err := h.service.ApproveSale(c.Request.Context(), id, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetSale returns a single sale
func (h *SalesHandler) GetSale(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid sale id")
		return
	}

	sale, err := h.service.GetSaleByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListSales lists sales with filtering and pagination
func (h *SalesHandler) ListSales(c *gin.Context) {
	var filter appsales.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer_id")
			return
		}
		filter.CustomerID = &customerID
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

	result, err := h.service.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetSummary returns sales analytics for a period
func (h *SalesHandler) GetSummary(c *gin.Context) {
	from, to, err := parsePeriodQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RegisterRoutes registers sales routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/analytics/summary", h.GetSummary)
		sales.GET("/:id", h.GetSale)
		sales.POST("/:id/post", h.PostSale)
		sales.PUT("/:id", h.EditSale)
		sales.POST("/:id/payments", h.AddPayment)
		sales.POST("/:id/approve", h.ApproveSale)
	}
}
