package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/chatbot-api/internal/services"
	"github.com/thereayou/chatbot-api/pkg/auth"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		detail string
	}{
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect username or password"},
		{services.ErrDuplicateUsername, http.StatusBadRequest, "Username already registered"},
		{fmt.Errorf("hash password: %w", auth.ErrPasswordTooLong), http.StatusBadRequest, "password must be at most 72 bytes"},
		{fmt.Errorf("delete: %w", services.ErrNotFound), http.StatusNotFound, "Message not found"},
		{errors.New("connection reset by peer"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			require.Equal(t, tt.status, w.Code)
			require.JSONEq(t, `{"detail":"`+tt.detail+`"}`, w.Body.String())
		})
	}
}
