package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/middleware"
)

const employeesPath = "/api/employees"

// Router настраивает маршруты API
type Router struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	empHandler *EmployeeHandler
}

// NewRouter создаёт новый роутер
func NewRouter(empHandler *EmployeeHandler, logger *slog.Logger) *Router {
	return &Router{
		mux:        http.NewServeMux(),
		logger:     logger,
		empHandler: empHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	r.mux.HandleFunc(employeesPath, r.employeesRouter)
	r.mux.HandleFunc(employeesPath+"/", r.employeesRouter)

	// Health check
	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Всё остальное - 404 в общем формате ошибок
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		r.empHandler.handleServiceError(w, req, domain.ErrResourceNotFound)
	})

	// Применяем middleware
	handler := middleware.ContentType(r.mux)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.Recoverer(r.logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}

// employeesRouter обрабатывает все запросы к /api/employees
func (r *Router) employeesRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, employeesPath)
	path = strings.Trim(path, "/")

	// /api/employees
	if path == "" {
		if req.Method == http.MethodPost {
			r.empHandler.Create(w, req)
			return
		}
		r.methodNotAllowed(w, req, http.MethodPost)
		return
	}

	if strings.Contains(path, "/") {
		r.empHandler.handleServiceError(w, req, domain.ErrResourceNotFound)
		return
	}

	// /api/employees/{id}
	switch req.Method {
	case http.MethodGet:
		r.empHandler.GetByID(w, req, path)
	case http.MethodPut:
		r.empHandler.Update(w, req, path)
	case http.MethodDelete:
		r.empHandler.Delete(w, req, path)
	default:
		r.methodNotAllowed(w, req, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	r.empHandler.handleServiceError(w, req, domain.ErrMethodNotAllowed)
}
