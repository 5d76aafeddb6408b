package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"invoicing/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{service.ErrBuyerNotFound, http.StatusNotFound},
		{service.ErrProductNotFound, http.StatusNotFound},
		{service.ErrInvoiceNotFound, http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrDuplicateNumber, http.StatusBadRequest},
		{service.ErrAlreadyArchived, http.StatusBadRequest},
		{errors.New("anything else"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		writeError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, "error: %v", tc.err)
		assert.Contains(t, w.Body.String(), tc.err.Error())
	}
}
