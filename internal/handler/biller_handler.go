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

type BillerHandler struct {
	profileService service.ProfileService
}

func NewBillerHandler(profileService service.ProfileService) *BillerHandler {
	return &BillerHandler{profileService: profileService}
}

func (h *BillerHandler) RegisterRoutes(router *gin.RouterGroup) {
	billers := router.Group("/billers", middleware.RequireAuth())
	{
		billers.POST("", h.CreateBiller)
		billers.GET("", h.ListBillers)
		billers.GET("/:id", h.GetBiller)
		billers.PUT("/:id", h.UpdateBiller)
		billers.DELETE("/:id", h.DeleteBiller)
	}
}

// CreateBiller handles POST /billers: account plus biller profile in one
// transaction, optionally attached to a warehouse.
// @Summary      Create biller
// @Tags         billers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBillerRequest  true  "Create Biller Payload"
// @Success      201      {object}  response.Response{data=service.BillerResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /billers [post]
func (h *BillerHandler) CreateBiller(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionCreate, authz.Resource{Kind: "biller"}) {
		return
	}

	var req service.CreateBillerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	biller, err := h.profileService.CreateBiller(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, biller))
}

// ListBillers handles GET /billers
// @Summary      List billers
// @Tags         billers
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /billers [get]
func (h *BillerHandler) ListBillers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionList, authz.Resource{Kind: "biller"}) {
		return
	}

	params := pagination.Parse(c)
	billers, total, err := h.profileService.ListBillers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch billers"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"billers": billers,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// GetBiller handles GET /billers/:id
// @Summary      Get biller by ID
// @Tags         billers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Biller ID"
// @Success      200  {object}  response.Response{data=service.BillerResponse}
// @Failure      404  {object}  response.Response
// @Router       /billers/{id} [get]
func (h *BillerHandler) GetBiller(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionRetrieve, authz.Resource{Kind: "biller"}) {
		return
	}

	biller, err := h.profileService.GetBiller(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, biller))
}

// UpdateBiller handles PUT /billers/:id. Owners may update their own profile;
// admins may update any.
// @Summary      Update biller
// @Tags         billers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Biller ID"
// @Param        payload  body      service.UpdateBillerRequest  true  "Update Biller Payload"
// @Success      200      {object}  response.Response{data=service.BillerResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /billers/{id} [put]
func (h *BillerHandler) UpdateBiller(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id := c.Param("id")
	owner := uuid.Nil
	if ownerID, err := h.profileService.OwnerOf(c.Request.Context(), "biller", id); err == nil {
		owner = ownerID
	}
	if !authorize(c, p, authz.ActionUpdate, authz.Resource{Kind: "biller", OwnerID: owner}) {
		return
	}

	var req service.UpdateBillerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	biller, err := h.profileService.UpdateBiller(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, biller))
}

// DeleteBiller handles DELETE /billers/:id
// @Summary      Delete biller
// @Tags         billers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Biller ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /billers/{id} [delete]
func (h *BillerHandler) DeleteBiller(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !authorize(c, p, authz.ActionDestroy, authz.Resource{Kind: "biller"}) {
		return
	}

	if err := h.profileService.DeleteBiller(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Biller deleted successfully", nil))
}
