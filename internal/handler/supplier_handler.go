package handler

import (
	"net/http"

	"posbackend/internal/authz"
	"posbackend/internal/middleware"
	"posbackend/internal/service"
	"posbackend/pkg/pagination"
	"posbackend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SupplierHandler struct {
	profileService service.ProfileService
}

func NewSupplierHandler(profileService service.ProfileService) *SupplierHandler {
	return &SupplierHandler{profileService: profileService}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/suppliers", middleware.RequireAuth())
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
		suppliers.PUT("/:id", h.UpdateSupplier)
		suppliers.DELETE("/:id", h.DeleteSupplier)
	}
}

// CreateSupplier handles POST /suppliers: account plus supplier profile in one
// transaction
// @Summary      Create supplier
// @Description  Creates the account and its supplier profile atomically; assigns the next supplier code
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSupplierRequest  true  "Create Supplier Payload"
// @Success      201      {object}  response.Response{data=service.SupplierResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /suppliers [post]
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionCreate, authz.Resource{Kind: "supplier"}) {
		return
	}

	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	supplier, err := h.profileService.CreateSupplier(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, supplier))
}

// ListSuppliers handles GET /suppliers
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionList, authz.Resource{Kind: "supplier"}) {
		return
	}

	params := pagination.Parse(c)
	suppliers, total, err := h.profileService.ListSuppliers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch suppliers"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// GetSupplier handles GET /suppliers/:id
// @Summary      Get supplier by ID
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response{data=service.SupplierResponse}
// @Failure      404  {object}  response.Response
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionRetrieve, authz.Resource{Kind: "supplier"}) {
		return
	}

	supplier, err := h.profileService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// UpdateSupplier handles PUT /suppliers/:id. Owners may update their own
// profile; admins may update any.
// @Summary      Update supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Supplier ID"
// @Param        payload  body      service.UpdateSupplierRequest  true  "Update Supplier Payload"
// @Success      200      {object}  response.Response{data=service.SupplierResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id := c.Param("id")
	owner := uuid.Nil
	if ownerID, err := h.profileService.OwnerOf(c.Request.Context(), "supplier", id); err == nil {
		owner = ownerID
	}
	if !authorize(c, p, authz.ActionUpdate, authz.Resource{Kind: "supplier", OwnerID: owner}) {
		return
	}

	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	supplier, err := h.profileService.UpdateSupplier(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, supplier))
}

// DeleteSupplier handles DELETE /suppliers/:id
// @Summary      Delete supplier
// @Tags         suppliers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionDestroy, authz.Resource{Kind: "supplier"}) {
		return
	}

	if err := h.profileService.DeleteSupplier(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Supplier deleted successfully", nil))
}
