package handler

import (
	"errors"
	"net/http"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/dto"
	"github.com/employee-api/internal/middleware"
)

// Тексты ответов для ошибок без привязки к полю
const (
	msgResourceNotFound = "Resource not found."
	msgEmployeeNotFound = "Employee not found."
	msgMethodNotAllowed = "Method not allowed."
)

// TranslateError превращает ошибку в HTTP-статус и тело ответа.
// Для статуса 500 детали ошибки в ответ не попадают.
func TranslateError(err error) (int, dto.ErrorResponse) {
	var (
		validationErr *domain.ValidationError
		deserErr      *domain.DeserializationError
		constraintErr *domain.ConstraintViolation
	)

	switch {
	case errors.As(err, &validationErr):
		entries := make([]dto.ErrorEntry, 0, len(validationErr.Violations))
		for _, v := range validationErr.Violations {
			entries = append(entries, dto.NewErrorEntry(v.Property, v.Message))
		}
		return errorResponse(http.StatusBadRequest, entries...)
	case errors.As(err, &deserErr):
		return errorResponse(http.StatusBadRequest, dto.NewErrorEntry("", deserErr.Message))
	case errors.As(err, &constraintErr):
		return errorResponse(http.StatusBadRequest, dto.NewErrorEntry(constraintErr.Property, constraintErr.Message))
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return errorResponse(http.StatusNotFound, dto.NewErrorEntry("", msgEmployeeNotFound))
	case errors.Is(err, domain.ErrResourceNotFound):
		return errorResponse(http.StatusNotFound, dto.NewErrorEntry("", msgResourceNotFound))
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return errorResponse(http.StatusMethodNotAllowed, dto.NewErrorEntry("", msgMethodNotAllowed))
	default:
		return errorResponse(http.StatusInternalServerError, dto.NewErrorEntry("", middleware.InternalErrorMessage))
	}
}

func errorResponse(status int, entries ...dto.ErrorEntry) (int, dto.ErrorResponse) {
	return status, dto.ErrorResponse{Status: status, Errors: entries}
}
