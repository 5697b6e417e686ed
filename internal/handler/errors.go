package handler

import (
	"errors"
	"net/http"

	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps service and repository failures onto HTTP statuses:
// validation failures are 422, missing rows 404, store conflicts 409 and
// everything else 500.
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationFailure(http.StatusUnprocessableEntity, validationErr.Messages))
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "resource not found"))
		return
	}

	var constraintErr *repository.ConstraintViolationError
	if errors.As(err, &constraintErr) {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "the change conflicts with existing data"))
		return
	}
	var concurrencyErr *repository.ConcurrencyConflictError
	if errors.As(err, &concurrencyErr) {
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "the record was modified concurrently, retry the operation"))
		return
	}

	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
}
