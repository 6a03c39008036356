package handler

import (
	"github.com/gin-gonic/gin"
	cashdeskapp "github.com/hotelops/backend/internal/application/cashdesk"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
)

// DrawerHandler handles cash drawer API endpoints
type DrawerHandler struct {
	BaseHandler
	drawerService *cashdeskapp.DrawerService
}

// NewDrawerHandler creates a new DrawerHandler
func NewDrawerHandler(drawerService *cashdeskapp.DrawerService) *DrawerHandler {
	return &DrawerHandler{drawerService: drawerService}
}

// DrawerRequest is the body for creating or updating a drawer
//
//	@Description	Request body for creating or updating a cash drawer
type DrawerRequest struct {
	Name     string `json:"name" example:"Front desk"`
	Location string `json:"location" example:"Lobby, ground floor"`
}

// Create godoc
// @ID           createCashDrawer
// @Summary      Create a cash drawer
// @Tags         cash-drawers
// @Accept       json
// @Produce      json
// @Param        request body DrawerRequest true "Drawer"
// @Success      201 {object} APIResponse[cashdeskapp.DrawerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/drawers [post]
func (h *DrawerHandler) Create(c *gin.Context) {
	var req DrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	drawer, err := h.drawerService.CreateDrawer(c.Request.Context(), cashdeskapp.CreateDrawerCommand{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, drawer)
}

// List godoc
// @ID           listCashDrawers
// @Summary      List cash drawers
// @Tags         cash-drawers
// @Produce      json
// @Param        search    query string false "Name or location contains"
// @Param        is_active query bool   false "Active flag"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        order_by  query string false "Sort field" default(name)
// @Param        order_dir query string false "asc or desc" default(asc)
// @Success      200 {object} APIResponse[[]cashdeskapp.DrawerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/drawers [get]
func (h *DrawerHandler) List(c *gin.Context) {
	var filter cashdeskapp.DrawerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	page, err := h.drawerService.ListDrawers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @ID           getCashDrawer
// @Summary      Get a cash drawer
// @Tags         cash-drawers
// @Produce      json
// @Param        id path string true "Drawer ID" format(uuid)
// @Success      200 {object} APIResponse[cashdeskapp.DrawerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/drawers/{id} [get]
func (h *DrawerHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "drawer")
	if !ok {
		return
	}

	drawer, err := h.drawerService.GetDrawer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, drawer)
}

// Update godoc
// @ID           updateCashDrawer
// @Summary      Rename or relocate a cash drawer
// @Tags         cash-drawers
// @Accept       json
// @Produce      json
// @Param        id      path string        true "Drawer ID" format(uuid)
// @Param        request body DrawerRequest true "Drawer"
// @Success      200 {object} APIResponse[cashdeskapp.DrawerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/drawers/{id} [put]
func (h *DrawerHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "drawer")
	if !ok {
		return
	}

	var req DrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	drawer, err := h.drawerService.UpdateDrawer(c.Request.Context(), cashdeskapp.UpdateDrawerCommand{
		ID:       id,
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, drawer)
}

// Activate godoc
// @ID           activateCashDrawer
// @Summary      Activate a cash drawer
// @Tags         cash-drawers
// @Produce      json
// @Param        id path string true "Drawer ID" format(uuid)
// @Success      200 {object} APIResponse[cashdeskapp.DrawerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/drawers/{id}/activate [post]
func (h *DrawerHandler) Activate(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "drawer")
	if !ok {
		return
	}

	drawer, err := h.drawerService.ActivateDrawer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, drawer)
}

// Deactivate godoc
// @ID           deactivateCashDrawer
// @Summary      Deactivate a cash drawer
// @Description  Fails while a shift is open on the drawer
// @Tags         cash-drawers
// @Produce      json
// @Param        id path string true "Drawer ID" format(uuid)
// @Success      200 {object} APIResponse[cashdeskapp.DrawerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashdesk/drawers/{id}/deactivate [post]
func (h *DrawerHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathUUID(c, "id", "drawer")
	if !ok {
		return
	}

	drawer, err := h.drawerService.DeactivateDrawer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, drawer)
}
