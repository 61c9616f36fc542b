package domain

import (
	"errors"
	"strings"
)

// Определение бизнес-ошибок
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrMethodNotAllowed = errors.New("method not allowed")

	ErrDuplicateEmail = &ConstraintViolation{
		Property: "email",
		Message:  "This email is already in use.",
	}
)

// Violation - нарушение одного правила валидации поля
type Violation struct {
	Property string
	Message  string
}

// ValidationError содержит все нарушения, найденные для сущности
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Property+": "+v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// DeserializationError - тело запроса не удалось разобрать в сущность
type DeserializationError struct {
	Message string
	Err     error
}

func (e *DeserializationError) Error() string {
	return e.Message
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// ConstraintViolation - нарушение ограничения уровня хранилища
type ConstraintViolation struct {
	Property string
	Message  string
}

func (e *ConstraintViolation) Error() string {
	return e.Property + ": " + e.Message
}
