package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/employee-api/internal/domain"
)

// EmployeePayload - тело запроса на создание/обновление сотрудника.
// nil означает, что поле не передано.
type EmployeePayload struct {
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Email     *string    `json:"email"`
	HiredAt   *Timestamp `json:"hiredAt"`
	Salary    *float64   `json:"salary"`
}

// DecodeEmployeePayload разбирает JSON-объект.
// Ключи сравниваются точно, с учётом регистра; неизвестные ключи (в том числе
// id и "EMAIL") игнорируются.
func DecodeEmployeePayload(body []byte) (*EmployeePayload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &domain.DeserializationError{Message: "Request body is empty."}
	}
	if trimmed[0] != '{' {
		return nil, &domain.DeserializationError{Message: "Request body must be a JSON object."}
	}

	var object map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&object); err != nil {
		return nil, &domain.DeserializationError{Message: decodeErrorMessage(err), Err: err}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &domain.DeserializationError{Message: "Request body must contain a single JSON object.", Err: err}
	}

	var payload EmployeePayload
	fields := []struct {
		key string
		dst any
	}{
		{"firstName", &payload.FirstName},
		{"lastName", &payload.LastName},
		{"email", &payload.Email},
		{"hiredAt", &payload.HiredAt},
		{"salary", &payload.Salary},
	}

	for _, f := range fields {
		raw, ok := object[f.key]
		if !ok {
			continue
		}
		// null в указатель даёт nil, то есть "поле не передано"
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return nil, &domain.DeserializationError{Message: fieldErrorMessage(f.key, err), Err: err}
		}
	}

	return &payload, nil
}

func decodeErrorMessage(err error) string {
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("Malformed JSON at offset %d: %s.", syntaxErr.Offset, syntaxErr.Error())
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "Malformed JSON: unexpected end of input."
	default:
		return "Could not decode request body: " + err.Error()
	}
}

func fieldErrorMessage(key string, err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Invalid value for %q: expected %s, got %s.", key, typeErr.Type, typeErr.Value)
	}
	return fmt.Sprintf("Invalid value for %q: %s.", key, err.Error())
}

// ApplyTo переносит переданные поля на сущность как есть, остальные не трогает
func (p *EmployeePayload) ApplyTo(emp *domain.Employee) {
	if p.FirstName != nil {
		emp.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		emp.LastName = *p.LastName
	}
	if p.Email != nil {
		emp.Email = *p.Email
	}
	if p.HiredAt != nil {
		hiredAt := p.HiredAt.Time
		emp.HiredAt = &hiredAt
	}
	if p.Salary != nil {
		salary := *p.Salary
		emp.Salary = &salary
	}
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	HiredAt   *Timestamp `json:"hiredAt"`
	Salary    *float64   `json:"salary"`
	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt Timestamp  `json:"updatedAt"`
}

// NewEmployeeResponse строит ответ по сущности
func NewEmployeeResponse(emp *domain.Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        emp.ID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		Email:     emp.Email,
		Salary:    emp.Salary,
		CreatedAt: NewTimestamp(emp.CreatedAt),
		UpdatedAt: NewTimestamp(emp.UpdatedAt),
	}

	if emp.HiredAt != nil {
		hiredAt := NewTimestamp(*emp.HiredAt)
		resp.HiredAt = &hiredAt
	}

	return resp
}

// ErrorEntry - одна ошибка в ответе; Property равен null для ошибок вне полей
type ErrorEntry struct {
	Property *string `json:"property"`
	Message  string  `json:"message"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Status int          `json:"status"`
	Errors []ErrorEntry `json:"errors"`
}

// NewErrorEntry создаёт запись об ошибке; пустое property превращается в null
func NewErrorEntry(property, message string) ErrorEntry {
	entry := ErrorEntry{Message: message}
	if property != "" {
		entry.Property = &property
	}
	return entry
}
