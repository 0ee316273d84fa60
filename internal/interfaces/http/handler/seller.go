package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	appdirectory "github.com/tradenet/backend/internal/application/directory"
	"github.com/tradenet/backend/internal/interfaces/http/middleware"
)

// SellerHandler handles seller HTTP endpoints
type SellerHandler struct {
	BaseHandler
	service *appdirectory.SellerService
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(service *appdirectory.SellerService) *SellerHandler {
	return &SellerHandler{service: service}
}

// RegisterRoutes registers seller routes. The debt reset endpoint is
// restricted to staff users.
func (h *SellerHandler) RegisterRoutes(r *gin.RouterGroup) {
	sellers := r.Group("/sellers")
	{
		sellers.POST("", h.Create)
		sellers.GET("", h.List)
		sellers.GET("/:id", h.GetByID)
		sellers.PUT("/:id", h.Update)
		sellers.PATCH("/:id", h.Update)
		sellers.DELETE("/:id", h.Delete)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.StaffOnly())
	{
		admin.POST("/sellers/debt-reset", h.ResetDebt)
	}
}

// Create handles POST /sellers
func (h *SellerHandler) Create(c *gin.Context) {
	var req appdirectory.CreateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List handles GET /sellers
func (h *SellerHandler) List(c *gin.Context) {
	var filter appdirectory.SellerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	responses, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, responses, total)
}

// GetByID handles GET /sellers/:id
func (h *SellerHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update handles PUT and PATCH /sellers/:id
func (h *SellerHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	var req appdirectory.UpdateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete handles DELETE /sellers/:id
func (h *SellerHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ResetDebt handles POST /admin/sellers/debt-reset.
// An empty body resets every seller.
func (h *SellerHandler) ResetDebt(c *gin.Context) {
	var req appdirectory.DebtResetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	resp, err := h.service.ResetDebt(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
