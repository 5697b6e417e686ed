package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceStatusHandler struct {
	statusService service.InvoiceStatusService
}

func NewInvoiceStatusHandler(statusService service.InvoiceStatusService) *InvoiceStatusHandler {
	return &InvoiceStatusHandler{statusService: statusService}
}

func (h *InvoiceStatusHandler) RegisterRoutes(router *gin.RouterGroup) {
	statuses := router.Group("/api/invoice-statuses")
	{
		statuses.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleViewer), h.ListStatuses)
		statuses.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateStatus)
		statuses.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateStatus)
		statuses.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteStatus)
	}
}

// ListStatuses returns every status ordered by sort order
// @Summary      List invoice statuses
// @Tags         invoice-statuses
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/invoice-statuses [get]
func (h *InvoiceStatusHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.statusService.ListStatuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, statuses))
}

// CreateStatus creates a new invoice status
// @Summary      Create invoice status
// @Tags         invoice-statuses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateInvoiceStatusRequest  true  "Status payload"
// @Success      201  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/invoice-statuses [post]
func (h *InvoiceStatusHandler) CreateStatus(c *gin.Context) {
	var req service.CreateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	status, err := h.statusService.CreateStatus(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, status))
}

// UpdateStatus updates an existing invoice status
// @Summary      Update invoice status
// @Tags         invoice-statuses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                              true  "Status ID"
// @Param        payload  body  service.UpdateInvoiceStatusRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Router       /api/invoice-statuses/{id} [put]
func (h *InvoiceStatusHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	status, err := h.statusService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}

// DeleteStatus removes a status no invoice or history row references
// @Summary      Delete invoice status
// @Tags         invoice-statuses
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Status ID"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/invoice-statuses/{id} [delete]
func (h *InvoiceStatusHandler) DeleteStatus(c *gin.Context) {
	if err := h.statusService.DeleteStatus(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "invoice status deleted"}))
}
