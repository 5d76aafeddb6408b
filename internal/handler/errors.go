package handler

import (
	"errors"
	"net/http"

	"invoicing/internal/service"
	"invoicing/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto the HTTP status taxonomy: unknown id →
// 404, bad credentials → 401, everything the caller can fix → 400.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrBuyerNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrInvoiceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}
	c.JSON(status, response.Error(status, err.Error()))
}
