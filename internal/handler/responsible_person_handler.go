package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ResponsiblePersonHandler struct {
	personService service.ResponsiblePersonService
}

func NewResponsiblePersonHandler(personService service.ResponsiblePersonService) *ResponsiblePersonHandler {
	return &ResponsiblePersonHandler{personService: personService}
}

func (h *ResponsiblePersonHandler) RegisterRoutes(router *gin.RouterGroup) {
	persons := router.Group("/api/responsible-persons")
	{
		persons.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleViewer), h.GetPerson)
		persons.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.CreatePerson)
		persons.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.UpdatePerson)
		persons.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleFinance), h.DeletePerson)
	}
	router.GET("/api/clients/:id/responsible-persons", middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleViewer), h.ListByClient)
	router.GET("/api/cost-centers/:id/responsible-persons", middleware.RequireRole(model.RoleAdmin, model.RoleFinance, model.RoleViewer), h.ListByCostCenter)
}

// GetPerson returns a single responsible person
// @Summary      Get responsible person
// @Tags         responsible-persons
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Responsible person ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/responsible-persons/{id} [get]
func (h *ResponsiblePersonHandler) GetPerson(c *gin.Context) {
	person, err := h.personService.GetPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, person))
}

// ListByClient returns contacts attached directly to a client
// @Summary      List client contacts
// @Tags         responsible-persons
// @Security     BearerAuth
// @Produce      json
// @Param        id           path   string  true   "Client ID"
// @Param        active_only  query  bool    false  "Only active contacts"
// @Success      200  {object}  response.Response
// @Router       /api/clients/{id}/responsible-persons [get]
func (h *ResponsiblePersonHandler) ListByClient(c *gin.Context) {
	persons, err := h.personService.ListByClient(c.Request.Context(), c.Param("id"), c.Query("active_only") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, persons))
}

// ListByCostCenter returns contacts attached to a cost center
// @Summary      List cost center contacts
// @Tags         responsible-persons
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Cost center ID"
// @Success      200  {object}  response.Response
// @Router       /api/cost-centers/{id}/responsible-persons [get]
func (h *ResponsiblePersonHandler) ListByCostCenter(c *gin.Context) {
	persons, err := h.personService.ListByCostCenter(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, persons))
}

// CreatePerson creates a contact in a client or cost center scope
// @Summary      Create responsible person
// @Tags         responsible-persons
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateResponsiblePersonRequest  true  "Contact payload"
// @Success      201  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/responsible-persons [post]
func (h *ResponsiblePersonHandler) CreatePerson(c *gin.Context) {
	var req service.CreateResponsiblePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	person, err := h.personService.CreatePerson(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, person))
}

// UpdatePerson updates an existing contact
// @Summary      Update responsible person
// @Tags         responsible-persons
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                                  true  "Responsible person ID"
// @Param        payload  body  service.UpdateResponsiblePersonRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/responsible-persons/{id} [put]
func (h *ResponsiblePersonHandler) UpdatePerson(c *gin.Context) {
	var req service.UpdateResponsiblePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	person, err := h.personService.UpdatePerson(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, person))
}

// DeletePerson removes a contact
// @Summary      Delete responsible person
// @Tags         responsible-persons
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Responsible person ID"
// @Success      200  {object}  response.Response
// @Router       /api/responsible-persons/{id} [delete]
func (h *ResponsiblePersonHandler) DeletePerson(c *gin.Context) {
	if err := h.personService.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "responsible person deleted"}))
}
