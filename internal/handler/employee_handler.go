package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/dto"
	"github.com/employee-api/internal/middleware"
	"github.com/employee-api/internal/service"
)

// maxBodyBytes - предельный размер тела запроса
const maxBodyBytes = 1 << 20

type EmployeeHandler struct {
	empService service.EmployeeService
	logger     *slog.Logger
}

func NewEmployeeHandler(empService service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		empService: empService,
		logger:     logger,
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := h.decodePayload(w, r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	emp, err := h.empService.Create(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.NewEmployeeResponse(emp))
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseID(rawID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	emp, err := h.empService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.NewEmployeeResponse(emp))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseID(rawID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	emp, err := h.empService.Update(r.Context(), id, func() (*dto.EmployeePayload, error) {
		return h.decodePayload(w, r)
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.NewEmployeeResponse(emp))
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := parseID(rawID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.empService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EmployeeHandler) decodePayload(w http.ResponseWriter, r *http.Request) (*dto.EmployeePayload, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &domain.DeserializationError{
				Message: fmt.Sprintf("Request body must not exceed %d bytes.", tooLarge.Limit),
				Err:     err,
			}
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}

	return dto.DecodeEmployeePayload(body)
}

// parseID принимает только положительные целые; остальное - несуществующий ресурс
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrEmployeeNotFound
	}
	return id, nil
}

func (h *EmployeeHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := TranslateError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("internal error",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	h.respondJSON(w, status, resp)
}

func (h *EmployeeHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}
