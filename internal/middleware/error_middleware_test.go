package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound},
		{"conflict", apperrors.ErrUserAlreadyExists, http.StatusConflict},
		{"bad request", apperrors.NewBadRequestError("csv is missing a username column"), http.StatusBadRequest},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrPermissionDenied, http.StatusForbidden},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleAPIErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Errorf("internal error detail leaked to the client: %s", w.Body.String())
	}
}

func TestHandleAPIErrorCustomMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewBadRequestError("csv is missing a username column"))

	if !strings.Contains(w.Body.String(), "csv is missing a username column") {
		t.Errorf("custom message not surfaced: %s", w.Body.String())
	}
}
