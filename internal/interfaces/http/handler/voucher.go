package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appaccounting "github.com/spark7/backoffice/internal/application/accounting"
)

// VoucherHandler handles voucher, opening-balance, and reconciliation
// API endpoints
type VoucherHandler struct {
	BaseHandler
	vouchers *appaccounting.VoucherService
	ledger   *appaccounting.LedgerService
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(vouchers *appaccounting.VoucherService, ledger *appaccounting.LedgerService) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers, ledger: ledger}
}

// CreateVoucher creates a balanced voucher with its ledger postings
func (h *VoucherHandler) CreateVoucher(c *gin.Context) {
	var req appaccounting.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	voucher, err := h.vouchers.CreateVoucher(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, voucher)
}

// GetVoucher returns a single voucher
func (h *VoucherHandler) GetVoucher(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher id")
		return
	}

	voucher, err := h.vouchers.GetVoucherByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}

// ListVouchers lists vouchers with filtering and pagination
func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	var filter appaccounting.VoucherListFilter
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

	result, err := h.vouchers.ListVouchers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// PrintVoucher marks a voucher as printed
func (h *VoucherHandler) PrintVoucher(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher id")
		return
	}

	voucher, err := h.vouchers.MarkPrinted(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, voucher)
}

// Receipt records money coming in through cash or bank
func (h *VoucherHandler) Receipt(c *gin.Context) {
	h.simpleVoucher(c, h.vouchers.Receipt)
}

// Payment records money going out through cash or bank
func (h *VoucherHandler) Payment(c *gin.Context) {
	h.simpleVoucher(c, h.vouchers.Payment)
}

// Salary records a payroll payout
func (h *VoucherHandler) Salary(c *gin.Context) {
	h.simpleVoucher(c, h.vouchers.Salary)
}

// Contract records a contract payout
func (h *VoucherHandler) Contract(c *gin.Context) {
	h.simpleVoucher(c, h.vouchers.Contract)
}

func (h *VoucherHandler) simpleVoucher(
	c *gin.Context,
	post func(ctx context.Context, req appaccounting.SimpleVoucherRequest) (*appaccounting.VoucherResponse, error),
) {
	var req appaccounting.SimpleVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	voucher, err := post(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, voucher)
}

// Transfer moves value between the cash and bank accounts
func (h *VoucherHandler) Transfer(c *gin.Context) {
	var req appaccounting.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	voucher, err := h.vouchers.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, voucher)
}

// SaveOpeningBalances posts opening balances for a financial year
func (h *VoucherHandler) SaveOpeningBalances(c *gin.Context) {
	var req appaccounting.OpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	voucher, err := h.vouchers.Opening(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, voucher)
}

// LockOpeningBalances locks the opening balance setup one-way
func (h *VoucherHandler) LockOpeningBalances(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.vouchers.LockOpeningBalances(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"locked": true})
}

// GetOpeningBalanceStatus returns the opening balance setup status
func (h *VoucherHandler) GetOpeningBalanceStatus(c *gin.Context) {
	status, err := h.vouchers.GetOpeningBalanceStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// ReconcileRequest toggles the reconciled flag on a ledger entry
type ReconcileRequest struct {
	Reconciled bool `json:"reconciled"`
}

// ReconcileEntry toggles reconciliation on a ledger entry
func (h *VoucherHandler) ReconcileEntry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid ledger entry id")
		return
	}

	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.ledger.Reconcile(c.Request.Context(), id, req.Reconciled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// RegisterRoutes registers voucher and opening-balance routes
func (h *VoucherHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vouchers := rg.Group("/accounting/vouchers")
	{
		vouchers.POST("", h.CreateVoucher)
		vouchers.GET("", h.ListVouchers)
		vouchers.POST("/receipt", h.Receipt)
		vouchers.POST("/payment", h.Payment)
		vouchers.POST("/salary", h.Salary)
		vouchers.POST("/contract", h.Contract)
		vouchers.POST("/transfer", h.Transfer)
		vouchers.GET("/:id", h.GetVoucher)
		vouchers.POST("/:id/print", h.PrintVoucher)
	}

	opening := rg.Group("/accounting/opening-balances")
	{
		opening.POST("", h.SaveOpeningBalances)
		opening.POST("/lock", h.LockOpeningBalances)
		opening.GET("/status", h.GetOpeningBalanceStatus)
	}

	rg.POST("/accounting/ledger/:id/reconcile", h.ReconcileEntry)
}
