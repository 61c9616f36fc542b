package handler_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/employee-api/internal/database/databasetest"
	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/dto"
	"github.com/employee-api/internal/handler"
	"github.com/employee-api/internal/repository"
	"github.com/employee-api/internal/service"
	"github.com/employee-api/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server *httptest.Server
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	empRepo := repository.NewEmployeeRepository(databasetest.NewSQLite(t))
	empService := service.NewEmployeeService(empRepo, validation.New())
	empHandler := handler.NewEmployeeHandler(empService, logger)
	router := handler.NewRouter(empHandler, logger)

	ts := &testServer{server: httptest.NewServer(router.Setup())}
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) url(path string) string {
	return ts.server.URL + path
}

func futureDate() string {
	return time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339)
}

func validEmployee(email string) map[string]any {
	return map[string]any{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     email,
		"hiredAt":   futureDate(),
		"salary":    150,
	}
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeEmployee(t *testing.T, resp *http.Response) dto.EmployeeResponse {
	t.Helper()
	var result dto.EmployeeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var result dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, resp.StatusCode, result.Status)
	return result
}

func properties(resp dto.ErrorResponse) []string {
	props := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		if e.Property == nil {
			props = append(props, "")
			continue
		}
		props = append(props, *e.Property)
	}
	return props
}

func mustCreate(t *testing.T, ts *testServer, email string) dto.EmployeeResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), validEmployee(email))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeEmployee(t, resp)
}

func employeeURL(ts *testServer, id int64) string {
	return ts.url("/api/employees/" + strconv.FormatInt(id, 10))
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.url("/health"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCreateEmployee_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), validEmployee("john@example.com"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	emp := decodeEmployee(t, resp)
	assert.Positive(t, emp.ID)
	assert.Equal(t, "john@example.com", emp.Email)
	assert.Equal(t, "John", emp.FirstName)
	assert.Equal(t, 150.0, *emp.Salary)
	assert.False(t, emp.CreatedAt.IsZero())
	assert.True(t, emp.CreatedAt.Equal(emp.UpdatedAt.Time))
}

func TestCreateEmployee_IgnoresClientID(t *testing.T) {
	ts := setupTestServer(t)

	body := validEmployee("id@example.com")
	body["id"] = 9999
	resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.NotEqual(t, int64(9999), decodeEmployee(t, resp).ID)
}

func TestCreateEmployee_LowSalary(t *testing.T) {
	ts := setupTestServer(t)

	body := validEmployee("low@example.com")
	body["salary"] = 99.5
	resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Equal(t, []string{"salary"}, properties(errResp))
	assert.Equal(t, "Salary must be at least 100.", errResp.Errors[0].Message)
}

func TestCreateEmployee_MissingFirstName(t *testing.T) {
	ts := setupTestServer(t)

	body := validEmployee("nofirst@example.com")
	delete(body, "firstName")
	resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Equal(t, []string{"firstName"}, properties(errResp))
	assert.Equal(t, "First name is required.", errResp.Errors[0].Message)
}

func TestCreateEmployee_ReportsAllViolations(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), map[string]any{
		"email":   "bad-email",
		"hiredAt": "2001-01-01T00:00:00+00:00",
		"salary":  10,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Equal(t, []string{"firstName", "lastName", "email", "hiredAt", "salary"}, properties(errResp))
	assert.Equal(t, `The email "bad-email" is not a valid email.`, errResp.Errors[2].Message)
	assert.Equal(t, "The hired date cannot be in the past.", errResp.Errors[3].Message)
}

func TestCreateEmployee_MalformedBody(t *testing.T) {
	ts := setupTestServer(t)

	for _, body := range []string{"", "{", "[]", `{"salary":"many"}`} {
		resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)

		errResp := decodeError(t, resp)
		require.Len(t, errResp.Errors, 1)
		assert.Nil(t, errResp.Errors[0].Property)
	}
}

func TestCreateEmployee_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	mustCreate(t, ts, "dup@example.com")

	resp := doJSON(t, http.MethodPost, ts.url("/api/employees"), validEmployee("dup@example.com"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Equal(t, []string{"email"}, properties(errResp))
	assert.Equal(t, "This email is already in use.", errResp.Errors[0].Message)
}

func TestCreateEmployee_ConcurrentDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)

	body, err := json.Marshal(validEmployee("race@example.com"))
	require.NoError(t, err)

	statuses := make([]int, 2)
	var wg sync.WaitGroup
	for i := range statuses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Post(ts.url("/api/employees"), "application/json", bytes.NewReader(body))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusBadRequest}, statuses)
}

func TestGetEmployee(t *testing.T) {
	ts := setupTestServer(t)
	created := mustCreate(t, ts, "get@example.com")

	resp := doJSON(t, http.MethodGet, employeeURL(ts, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, created, decodeEmployee(t, resp))
}

func TestGetEmployee_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/api/employees/999", "/api/employees/abc", "/api/employees/0", "/api/employees/-1"} {
		resp := doJSON(t, http.MethodGet, ts.url(path), nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)

		errResp := decodeError(t, resp)
		require.Len(t, errResp.Errors, 1)
		assert.Nil(t, errResp.Errors[0].Property)
	}
}

func TestUpdateEmployee_PartialSalary(t *testing.T) {
	ts := setupTestServer(t)
	created := mustCreate(t, ts, "update@example.com")

	resp := doJSON(t, http.MethodPut, employeeURL(ts, created.ID), map[string]any{
		"id":     created.ID,
		"salary": 250,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeEmployee(t, resp)
	assert.Equal(t, 250.0, *updated.Salary)
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.Email, updated.Email)
	assert.True(t, created.HiredAt.Equal(updated.HiredAt.Time))
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt.Time))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt.Time))

	stored := decodeEmployee(t, doJSON(t, http.MethodGet, employeeURL(ts, created.ID), nil))
	assert.Equal(t, updated, stored)
}

func TestUpdateEmployee_Invalid(t *testing.T) {
	ts := setupTestServer(t)
	created := mustCreate(t, ts, "invalid@example.com")

	resp := doJSON(t, http.MethodPut, employeeURL(ts, created.ID), map[string]any{"salary": 5})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"salary"}, properties(decodeError(t, resp)))

	stored := decodeEmployee(t, doJSON(t, http.MethodGet, employeeURL(ts, created.ID), nil))
	assert.Equal(t, 150.0, *stored.Salary)
}

func TestUpdateEmployee_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	mustCreate(t, ts, "taken@example.com")
	other := mustCreate(t, ts, "other@example.com")

	resp := doJSON(t, http.MethodPut, employeeURL(ts, other.ID), map[string]any{"email": "taken@example.com"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"email"}, properties(decodeError(t, resp)))
}

func TestUpdateEmployee_NotFoundBeforeBody(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodPut, ts.url("/api/employees/12345"), "{not json")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Nil(t, decodeError(t, resp).Errors[0].Property)
}

func TestUpdateEmployee_MiscasedKeysIgnored(t *testing.T) {
	ts := setupTestServer(t)
	created := mustCreate(t, ts, "case@example.com")

	resp := doJSON(t, http.MethodPut, employeeURL(ts, created.ID), `{"SALARY":5000,"EMAIL":"hijacked@example.com","Salary":7000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeEmployee(t, resp)
	assert.Equal(t, "case@example.com", updated.Email)
	assert.Equal(t, 150.0, *updated.Salary)

	stored := decodeEmployee(t, doJSON(t, http.MethodGet, employeeURL(ts, created.ID), nil))
	assert.Equal(t, "case@example.com", stored.Email)
	assert.Equal(t, 150.0, *stored.Salary)
}

func TestCreateEmployee_OversizedBody(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	empService := service.NewEmployeeService(repository.NewEmployeeRepository(databasetest.NewSQLite(t)), validation.New())
	router := handler.NewRouter(handler.NewEmployeeHandler(empService, logger), logger)

	body := `{"firstName":"` + strings.Repeat("a", 1<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.Setup().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	require.Len(t, errResp.Errors, 1)
	assert.Nil(t, errResp.Errors[0].Property)
	assert.Contains(t, errResp.Errors[0].Message, "must not exceed")
}

type failingRepository struct {
	err error
}

func (r failingRepository) Create(context.Context, *domain.Employee) error { return r.err }

func (r failingRepository) GetByID(context.Context, int64) (*domain.Employee, error) {
	return nil, r.err
}

func (r failingRepository) Update(context.Context, *domain.Employee) error { return r.err }

func (r failingRepository) Delete(context.Context, int64) error { return r.err }

func TestGetEmployee_InternalErrorIsLoggedNotLeaked(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	repo := failingRepository{err: errors.New("dial tcp db-host:5432: connection refused")}
	empService := service.NewEmployeeService(repo, validation.New())
	router := handler.NewRouter(handler.NewEmployeeHandler(empService, logger), logger)

	req := httptest.NewRequest(http.MethodGet, "/api/employees/1", nil)
	req.Header.Set("X-Request-ID", "req-500")
	rec := httptest.NewRecorder()
	router.Setup().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db-host")

	var errResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	require.Len(t, errResp.Errors, 1)
	assert.Nil(t, errResp.Errors[0].Property)
	assert.Equal(t, "Internal Server Error. Please contact the system administrator.", errResp.Errors[0].Message)

	var logged map[string]any
	scanner := bufio.NewScanner(&logs)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry["msg"] == "internal error" {
			logged = entry
		}
	}
	require.NotNil(t, logged, "internal error must be logged")
	assert.Equal(t, "req-500", logged["request_id"])
	assert.Contains(t, logged["error"], "connection refused")
}

func TestDeleteEmployee(t *testing.T) {
	ts := setupTestServer(t)
	created := mustCreate(t, ts, "delete@example.com")

	resp := doJSON(t, http.MethodDelete, employeeURL(ts, created.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)

	resp = doJSON(t, http.MethodGet, employeeURL(ts, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, employeeURL(ts, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouting_UnknownRouteAndMethod(t *testing.T) {
	ts := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.url("/api/departments"), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Resource not found.", decodeError(t, resp).Errors[0].Message)

	resp = doJSON(t, http.MethodGet, ts.url("/api/employees/1/extra"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.url("/api/employees"), nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
	assert.Nil(t, decodeError(t, resp).Errors[0].Property)

	resp = doJSON(t, http.MethodPatch, ts.url("/api/employees/1"), map[string]any{})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
