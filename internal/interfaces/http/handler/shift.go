package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	cashdeskapp "github.com/hotelops/backend/internal/application/cashdesk"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader lets clients retry RecordTransaction safely
const IdempotencyKeyHeader = "Idempotency-Key"

// ShiftHandler handles cashier shift API endpoints
type ShiftHandler struct {
	BaseHandler
	shiftService    *cashdeskapp.ShiftService
	approvalService *cashdeskapp.ApprovalService
	queryService    *cashdeskapp.ShiftQueryService
}

// NewShiftHandler creates a new ShiftHandler
func NewShiftHandler(
	shiftService *cashdeskapp.ShiftService,
	approvalService *cashdeskapp.ApprovalService,
	queryService *cashdeskapp.ShiftQueryService,
) *ShiftHandler {
	return &ShiftHandler{
		shiftService:    shiftService,
		approvalService: approvalService,
		queryService:    queryService,
	}
}

// Start godoc
// @ID           startCashierShift
// @Summary      Open a shift on a drawer
// @Description  The caller becomes the shift's cashier. A cashier can hold only one open shift, across all drawers.
// @Tags         cashier-shifts
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Drawer ID" format(uuid)
// @Param        request body cashdeskapp.StartShiftCommand true "Opening float"
// @Success      201 {object} APIResponse[cashdeskapp.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/drawers/{id}/shifts [post]
func (h *ShiftHandler) Start(c *gin.Context) {
	drawerID, ok := h.pathUUID(c, "id", "drawer")
	if !ok {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var cmd cashdeskapp.StartShiftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	cmd.DrawerID = drawerID
	cmd.UserID = userID

	shift, err := h.shiftService.StartShift(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shift)
}

// RecordTransaction godoc
// @ID           recordCashTransaction
// @Summary      Record a cash movement
// @Description  Appends in, out or in_out (currency exchange) rows to the caller's open shift.
// @Description  A repeated Idempotency-Key is refused with ERR_DUPLICATE_REQUEST.
// @Tags         cashier-shifts
// @Accept       json
// @Produce      json
// @Param        id              path   string                               true  "Shift ID" format(uuid)
// @Param        Idempotency-Key header string                               false "Client request key"
// @Param        request         body   cashdeskapp.RecordTransactionCommand true  "Movement"
// @Success      201 {object} APIResponse[cashdeskapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/transactions [post]
func (h *ShiftHandler) RecordTransaction(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var cmd cashdeskapp.RecordTransactionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	cmd.ShiftID = shiftID
	cmd.UserID = userID
	cmd.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	tx, err := h.shiftService.RecordTransaction(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Close godoc
// @ID           closeCashierShift
// @Summary      Close a shift with the counted cash
// @Description  A shift within tolerance closes directly; otherwise it goes under review and needs a discrepancy reason.
// @Tags         cashier-shifts
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Shift ID" format(uuid)
// @Param        request body cashdeskapp.CloseShiftCommand true "Cash count"
// @Success      200 {object} APIResponse[cashdeskapp.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var cmd cashdeskapp.CloseShiftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	cmd.ShiftID = shiftID
	cmd.UserID = userID

	shift, err := h.shiftService.CloseShift(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Approve godoc
// @ID           approveCashierShift
// @Summary      Approve a shift under review
// @Tags         cashier-shifts
// @Accept       json
// @Produce      json
// @Param        id      path string                          true  "Shift ID" format(uuid)
// @Param        request body cashdeskapp.ApproveShiftCommand false "Approval notes"
// @Success      200 {object} APIResponse[cashdeskapp.ShiftResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/approve [post]
func (h *ShiftHandler) Approve(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}
	managerID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var cmd cashdeskapp.ApproveShiftCommand
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&cmd); err != nil {
			middleware.HandleBindError(c, err)
			return
		}
	}
	cmd.ShiftID = shiftID
	cmd.ManagerID = managerID

	shift, err := h.approvalService.Approve(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Reject godoc
// @ID           rejectCashierShift
// @Summary      Send a shift under review back to its cashier
// @Tags         cashier-shifts
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Shift ID" format(uuid)
// @Param        request body cashdeskapp.RejectShiftCommand true "Rejection reason"
// @Success      200 {object} APIResponse[cashdeskapp.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/reject [post]
func (h *ShiftHandler) Reject(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}
	managerID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var cmd cashdeskapp.RejectShiftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	cmd.ShiftID = shiftID
	cmd.ManagerID = managerID

	shift, err := h.approvalService.Reject(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Adjust godoc
// @ID           adjustCashierShift
// @Summary      Approve a shift with corrected counted amounts
// @Tags         cashier-shifts
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Shift ID" format(uuid)
// @Param        request body cashdeskapp.AdjustShiftCommand true "Adjusted amounts per currency"
// @Success      200 {object} APIResponse[cashdeskapp.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/adjust [post]
func (h *ShiftHandler) Adjust(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}
	managerID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var cmd cashdeskapp.AdjustShiftCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	cmd.ShiftID = shiftID
	cmd.ManagerID = managerID

	shift, err := h.approvalService.ApproveWithAdjustment(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// List godoc
// @ID           listCashierShifts
// @Summary      List shifts
// @Tags         cashier-shifts
// @Produce      json
// @Param        status    query string false "open, under_review or closed"
// @Param        drawer_id query string false "Drawer ID" format(uuid)
// @Param        user_id   query string false "Cashier ID" format(uuid)
// @Param        from      query string false "Opened on or after (YYYY-MM-DD)"
// @Param        to        query string false "Opened before the end of (YYYY-MM-DD)"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        order_by  query string false "Sort field" default(opened_at)
// @Param        order_dir query string false "asc or desc" default(desc)
// @Success      200 {object} APIResponse[[]cashdeskapp.ShiftResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	var filter cashdeskapp.ShiftListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	page, err := h.queryService.ListShifts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Current godoc
// @ID           getCurrentCashierShift
// @Summary      Get the caller's open shift
// @Tags         cashier-shifts
// @Produce      json
// @Success      200 {object} APIResponse[cashdeskapp.ShiftDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/current [get]
func (h *ShiftHandler) Current(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	shift, err := h.queryService.GetCurrentShift(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// GetByID godoc
// @ID           getCashierShift
// @Summary      Get a shift with its ledger, counts and end saldos
// @Tags         cashier-shifts
// @Produce      json
// @Param        id path string true "Shift ID" format(uuid)
// @Success      200 {object} APIResponse[cashdeskapp.ShiftDetailResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id} [get]
func (h *ShiftHandler) GetByID(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}

	shift, err := h.queryService.GetShift(c.Request.Context(), shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shift)
}

// Summary godoc
// @ID           getCashierShiftSummary
// @Summary      Per-currency and per-category totals of a shift
// @Tags         cashier-shifts
// @Produce      json
// @Param        id path string true "Shift ID" format(uuid)
// @Success      200 {object} APIResponse[cashdeskapp.ShiftSummaryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/summary [get]
func (h *ShiftHandler) Summary(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}

	summary, err := h.queryService.GetShiftSummary(c.Request.Context(), shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ListTransactions godoc
// @ID           listShiftTransactions
// @Summary      List a shift's ledger
// @Tags         cashier-shifts
// @Produce      json
// @Param        id        path  string true  "Shift ID" format(uuid)
// @Param        type      query string false "in, out or in_out"
// @Param        currency  query string false "Currency code"
// @Param        category  query string false "Category"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]cashdeskapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/transactions [get]
func (h *ShiftHandler) ListTransactions(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}

	var filter cashdeskapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	page, err := h.queryService.ListTransactions(c.Request.Context(), shiftID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ExportReport godoc
// @ID           exportCashierShiftReport
// @Summary      Download the shift report as XLSX
// @Tags         cashier-shifts
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Shift ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/report [get]
func (h *ShiftHandler) ExportReport(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}

	report, err := h.queryService.ExportShiftReport(c.Request.Context(), shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}

// ArchivedReport godoc
// @ID           getArchivedShiftReport
// @Summary      Get a download link for the archived report of a closed shift
// @Tags         cashier-shifts
// @Produce      json
// @Param        id path string true "Shift ID" format(uuid)
// @Success      200 {object} APIResponse[cashdeskapp.ReportLinkResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/shifts/{id}/report/archive [get]
func (h *ShiftHandler) ArchivedReport(c *gin.Context) {
	shiftID, ok := h.pathUUID(c, "id", "shift")
	if !ok {
		return
	}

	link, err := h.queryService.GetArchivedReportURL(c.Request.Context(), shiftID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}
