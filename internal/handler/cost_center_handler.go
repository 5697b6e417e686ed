package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CostCenterHandler struct {
	costCenterService service.CostCenterService
}

func NewCostCenterHandler(costCenterService service.CostCenterService) *CostCenterHandler {
	return &CostCenterHandler{costCenterService: costCenterService}
}

func (h *CostCenterHandler) RegisterRoutes(router *gin.RouterGroup) {
	costCenters := router.Group("/api/cost-centers")
	{
		costCenters.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleViewer), h.GetCostCenter)
		costCenters.GET("/:id/hierarchy", middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleViewer), h.GetHierarchy)
		costCenters.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.CreateCostCenter)
		costCenters.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.UpdateCostCenter)
		costCenters.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteCostCenter)
	}
	router.GET("/api/clients/:id/cost-centers", middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleViewer), h.ListByClient)
}

// GetCostCenter returns a single cost center
// @Summary      Get cost center
// @Tags         cost-centers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Cost center ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/cost-centers/{id} [get]
func (h *CostCenterHandler) GetCostCenter(c *gin.Context) {
	costCenter, err := h.costCenterService.GetCostCenter(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, costCenter))
}

// GetHierarchy returns the subtree rooted at the cost center, preorder
// @Summary      Get cost center hierarchy
// @Tags         cost-centers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Root cost center ID"
// @Success      200  {object}  response.Response
// @Router       /api/cost-centers/{id}/hierarchy [get]
func (h *CostCenterHandler) GetHierarchy(c *gin.Context) {
	hierarchy, err := h.costCenterService.GetHierarchy(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, hierarchy))
}

// ListByClient returns every cost center owned by a client
// @Summary      List client cost centers
// @Tags         cost-centers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Client ID"
// @Success      200  {object}  response.Response
// @Router       /api/clients/{id}/cost-centers [get]
func (h *CostCenterHandler) ListByClient(c *gin.Context) {
	costCenters, err := h.costCenterService.ListByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, costCenters))
}

// CreateCostCenter creates a new cost center
// @Summary      Create cost center
// @Tags         cost-centers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateCostCenterRequest  true  "Cost center payload"
// @Success      201  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/cost-centers [post]
func (h *CostCenterHandler) CreateCostCenter(c *gin.Context) {
	var req service.CreateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	costCenter, err := h.costCenterService.CreateCostCenter(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, costCenter))
}

// UpdateCostCenter updates an existing cost center
// @Summary      Update cost center
// @Tags         cost-centers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Cost center ID"
// @Param        payload  body  service.UpdateCostCenterRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Router       /api/cost-centers/{id} [put]
func (h *CostCenterHandler) UpdateCostCenter(c *gin.Context) {
	var req service.UpdateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	costCenter, err := h.costCenterService.UpdateCostCenter(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, costCenter))
}

// DeleteCostCenter removes a cost center without children or invoices
// @Summary      Delete cost center
// @Tags         cost-centers
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Cost center ID"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/cost-centers/{id} [delete]
func (h *CostCenterHandler) DeleteCostCenter(c *gin.Context) {
	if err := h.costCenterService.DeleteCostCenter(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "cost center deleted"}))
}
