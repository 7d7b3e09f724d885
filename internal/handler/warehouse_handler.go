package handler

import (
	"net/http"

	"posbackend/internal/middleware"
	"posbackend/internal/model"
	"posbackend/internal/service"
	"posbackend/pkg/pagination"
	"posbackend/pkg/response"

	"github.com/gin-gonic/gin"
)

type WarehouseHandler struct {
	warehouseService service.WarehouseService
}

func NewWarehouseHandler(warehouseService service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// RegisterRoutes binds the warehouse endpoints. Warehouses are back-office
// records, admin-only across the board.
func (h *WarehouseHandler) RegisterRoutes(router *gin.RouterGroup) {
	warehouses := router.Group("/warehouses", middleware.RequireRole(model.RoleAdmin))
	{
		warehouses.POST("", h.CreateWarehouse)
		warehouses.GET("", h.ListWarehouses)
		warehouses.GET("/:id", h.GetWarehouse)
		warehouses.PUT("/:id", h.UpdateWarehouse)
		warehouses.DELETE("/:id", h.DeleteWarehouse)
	}
}

// CreateWarehouse handles POST /warehouses
// @Summary      Create warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateWarehouseRequest  true  "Create Warehouse Payload"
// @Success      201      {object}  response.Response{data=service.WarehouseResponse}
// @Failure      400      {object}  response.Response
// @Router       /warehouses [post]
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, warehouse))
}

// ListWarehouses handles GET /warehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /warehouses [get]
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	params := pagination.Parse(c)
	warehouses, total, err := h.warehouseService.ListWarehouses(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch warehouses"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"warehouses": warehouses,
		"total":      total,
		"page":       params.Page,
		"limit":      params.Limit,
	}))
}

// GetWarehouse handles GET /warehouses/:id
// @Summary      Get warehouse by ID
// @Tags         warehouses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Warehouse ID"
// @Success      200  {object}  response.Response{data=service.WarehouseResponse}
// @Failure      404  {object}  response.Response
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	warehouse, err := h.warehouseService.GetWarehouse(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, warehouse))
}

// UpdateWarehouse handles PUT /warehouses/:id
// @Summary      Update warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Warehouse ID"
// @Param        payload  body      service.UpdateWarehouseRequest  true  "Update Warehouse Payload"
// @Success      200      {object}  response.Response{data=service.WarehouseResponse}
// @Failure      400      {object}  response.Response
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req service.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	warehouse, err := h.warehouseService.UpdateWarehouse(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, warehouse))
}

// DeleteWarehouse handles DELETE /warehouses/:id; attached billers are
// detached, not deleted.
// @Summary      Delete warehouse
// @Tags         warehouses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Warehouse ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /warehouses/{id} [delete]
func (h *WarehouseHandler) DeleteWarehouse(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.warehouseService.DeleteWarehouse(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Warehouse deleted successfully", nil))
}
