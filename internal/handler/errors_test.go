package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		properties []string
		message    string
	}{
		{
			name: "validation",
			err: &domain.ValidationError{Violations: []domain.Violation{
				{Property: "firstName", Message: "First name is required."},
				{Property: "salary", Message: "Salary must be at least 100."},
			}},
			status:     http.StatusBadRequest,
			properties: []string{"firstName", "salary"},
			message:    "First name is required.",
		},
		{
			name:       "deserialization",
			err:        &domain.DeserializationError{Message: "Request body is empty."},
			status:     http.StatusBadRequest,
			properties: []string{""},
			message:    "Request body is empty.",
		},
		{
			name:       "wrapped constraint",
			err:        fmt.Errorf("insert: %w", domain.ErrDuplicateEmail),
			status:     http.StatusBadRequest,
			properties: []string{"email"},
			message:    "This email is already in use.",
		},
		{
			name:       "employee not found",
			err:        domain.ErrEmployeeNotFound,
			status:     http.StatusNotFound,
			properties: []string{""},
			message:    "Employee not found.",
		},
		{
			name:       "resource not found",
			err:        domain.ErrResourceNotFound,
			status:     http.StatusNotFound,
			properties: []string{""},
			message:    "Resource not found.",
		},
		{
			name:       "method not allowed",
			err:        domain.ErrMethodNotAllowed,
			status:     http.StatusMethodNotAllowed,
			properties: []string{""},
			message:    "Method not allowed.",
		},
		{
			name:       "unexpected",
			err:        errors.New("connection refused: secret-host:5432"),
			status:     http.StatusInternalServerError,
			properties: []string{""},
			message:    "Internal Server Error. Please contact the system administrator.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := handler.TranslateError(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, resp.Status)
			require.NotEmpty(t, resp.Errors)
			assert.Equal(t, tt.properties, properties(resp))
			assert.Equal(t, tt.message, resp.Errors[0].Message)
		})
	}
}
