package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hr-admin/internal/api/middleware"
	"hr-admin/internal/auth"
	"hr-admin/internal/dto"
	"hr-admin/internal/model"
	"hr-admin/internal/service"
	apperrors "hr-admin/pkg/errors"
	"hr-admin/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.MeResponse
	meErr         error
	changePassErr error

	gotRefresh string
	gotJTI     string
	gotIdent   *auth.Identity
}

func (m *mockAuthService) Authenticate(_ context.Context, _, _ string) (*auth.Identity, error) {
	return nil, nil
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.gotRefresh = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.gotJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, id *auth.Identity) (*dto.MeResponse, error) {
	m.gotIdent = id
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, id *auth.Identity, _ *dto.ChangePasswordRequest) error {
	m.gotIdent = id
	return m.changePassErr
}

// ── Mock EmployeeService ──

type mockEmployeeService struct {
	result    *dto.EmployeeResponse
	list      []dto.EmployeeResponse
	err       error
	gotID     uint
	gotIdent  *auth.Identity
	gotFilter *dto.EmployeeFilterRequest
	gotStatus model.Status
}

func (m *mockEmployeeService) Create(_ context.Context, id *auth.Identity, _ *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	m.gotIdent = id
	return m.result, m.err
}
func (m *mockEmployeeService) List(_ context.Context, id *auth.Identity) ([]dto.EmployeeResponse, error) {
	m.gotIdent = id
	return m.list, m.err
}
func (m *mockEmployeeService) ListFiltered(_ context.Context, id *auth.Identity, req *dto.EmployeeFilterRequest) ([]dto.EmployeeResponse, error) {
	m.gotIdent = id
	m.gotFilter = req
	return m.list, m.err
}
func (m *mockEmployeeService) UpdateStatus(_ context.Context, id *auth.Identity, employeeID uint, status model.Status) (*dto.EmployeeResponse, error) {
	m.gotIdent, m.gotID, m.gotStatus = id, employeeID, status
	return m.result, m.err
}
func (m *mockEmployeeService) Update(_ context.Context, id *auth.Identity, employeeID uint, _ *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	m.gotIdent, m.gotID = id, employeeID
	return m.result, m.err
}

// ── Mock DepartmentService ──

type mockDepartmentService struct {
	result *dto.DepartmentResponse
	list   []dto.DepartmentResponse
	err    error
	gotID  uint
}

func (m *mockDepartmentService) Create(_ context.Context, _ *auth.Identity, _ *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	return m.result, m.err
}
func (m *mockDepartmentService) Update(_ context.Context, _ *auth.Identity, deptID uint, _ *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	m.gotID = deptID
	return m.result, m.err
}
func (m *mockDepartmentService) List(_ context.Context, _ *auth.Identity) ([]dto.DepartmentResponse, error) {
	return m.list, m.err
}
func (m *mockDepartmentService) UpdateStatus(_ context.Context, _ *auth.Identity, deptID uint, _ model.Status) (*dto.DepartmentResponse, error) {
	m.gotID = deptID
	return m.result, m.err
}

// ── Mock ManagerService ──

type mockManagerService struct {
	list []dto.ManagerResponse
	err  error
}

func (m *mockManagerService) List(_ context.Context) ([]dto.ManagerResponse, error) {
	return m.list, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportEmployees(_ context.Context, _ *auth.Identity) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

var managerIdentity = &auth.Identity{UserID: 102, EmployeeID: 2, Email: "mgr@hr.test", Role: model.RoleManager}

// withIdentity 模拟 JWTAuth 注入身份
func withIdentity(id *auth.Identity, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != nil {
			c.Set(middleware.ContextKeyIdentity, id)
			c.Set(middleware.ContextKeyTokenJTI, "test-jti")
			c.Set(middleware.ContextKeyTokenExp, time.Now().Add(15*time.Minute))
		}
		h(c)
	}
}

func serve(method, path, route string, body io.Reader, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, h)

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status, code int) response.Response {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp.Code != code {
		t.Errorf("expected code %d, got %d", code, resp.Code)
	}
	return resp
}

// ═══════════════════════════════════════════════════════════
// handleError
// ═══════════════════════════════════════════════════════════

func TestHandleError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
		{auth.ErrUnauthenticated, http.StatusUnauthorized, 10002},
		{auth.ErrForbidden, http.StatusForbidden, 10003},
		{service.ErrManagerNotFound, http.StatusBadRequest, 10001},
		{service.ErrEmployeeNotFound, http.StatusNotFound, 10004},
		{service.ErrEmailExists, http.StatusConflict, 10005},
		{apperrors.Internal("查询员工", errors.New("connection refused")), http.StatusInternalServerError, 50000},
		{errors.New("boom"), http.StatusInternalServerError, 50000},
	}

	for _, tc := range cases {
		w := serve("GET", "/", "/", nil, func(c *gin.Context) { handleError(c, tc.err) })
		resp := expectStatus(t, w, tc.status, tc.code)
		if resp.Message != apperrors.MessageOf(tc.err) {
			t.Errorf("message should be surfaced verbatim: want %q, got %q", apperrors.MessageOf(tc.err), resp.Message)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "test-access-token", RefreshToken: "test-refresh-token", ExpiresIn: 900},
	}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Email: "alice@hr.test", Password: "Password123#"}), h.Login)

	expectStatus(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), "test-access-token") {
		t.Errorf("expected access token in body, got %s", w.Body.String())
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", "/auth/login", bytes.NewReader([]byte("invalid json")), h.Login)
	expectStatus(t, w, http.StatusBadRequest, 10001)

	w = serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Email: "not-an-email", Password: "x"}), h.Login)
	expectStatus(t, w, http.StatusBadRequest, 10001)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Email: "alice@hr.test", Password: "wrong"}), h.Login)

	expectStatus(t, w, http.StatusUnauthorized, 11001)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	mock := &mockAuthService{refreshResult: &dto.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/refresh", "/auth/refresh",
		jsonBody(dto.RefreshTokenRequest{RefreshToken: "old-refresh"}), h.RefreshToken)
	expectStatus(t, w, http.StatusOK, 0)
	if mock.gotRefresh != "old-refresh" {
		t.Errorf("expected refresh token passed through, got %q", mock.gotRefresh)
	}

	w = serve("POST", "/auth/refresh", "/auth/refresh", jsonBody(map[string]string{}), h.RefreshToken)
	expectStatus(t, w, http.StatusBadRequest, 10001)

	mock.refreshErr = service.ErrTokenInvalid
	w = serve("POST", "/auth/refresh", "/auth/refresh",
		jsonBody(dto.RefreshTokenRequest{RefreshToken: "revoked"}), h.RefreshToken)
	expectStatus(t, w, http.StatusUnauthorized, 10002)
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", "/auth/logout", nil, withIdentity(managerIdentity, h.Logout))

	expectStatus(t, w, http.StatusOK, 0)
	if mock.gotJTI != "test-jti" {
		t.Errorf("expected jti test-jti, got %q", mock.gotJTI)
	}
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	mock := &mockAuthService{meResult: &dto.MeResponse{User: dto.UserResponse{ID: 102, Email: "mgr@hr.test"}}}
	h := NewAuthHandler(mock)

	w := serve("GET", "/auth/me", "/auth/me", nil, withIdentity(managerIdentity, h.GetCurrentUser))
	expectStatus(t, w, http.StatusOK, 0)
	if mock.gotIdent != managerIdentity {
		t.Error("expected identity from context to reach the service")
	}
}

func TestAuthHandler_ChangePassword_Validation(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("PUT", "/auth/password", "/auth/password",
		jsonBody(dto.ChangePasswordRequest{OldPassword: "Password123#", NewPassword: "short"}),
		withIdentity(managerIdentity, h.ChangePassword))

	expectStatus(t, w, http.StatusBadRequest, 10001)
}

// ═══════════════════════════════════════════════════════════
// EmployeeHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEmployeeHandler_ListEmployees(t *testing.T) {
	mock := &mockEmployeeService{list: []dto.EmployeeResponse{{ID: 3}, {ID: 4}}}
	h := NewEmployeeHandler(mock)

	w := serve("GET", "/employees", "/employees", nil, withIdentity(managerIdentity, h.ListEmployees))

	expectStatus(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), `"total":2`) {
		t.Errorf("expected total 2, got %s", w.Body.String())
	}
}

func TestEmployeeHandler_ListEmployees_Anonymous(t *testing.T) {
	mock := &mockEmployeeService{err: auth.ErrUnauthenticated}
	h := NewEmployeeHandler(mock)

	w := serve("GET", "/employees", "/employees", nil, withIdentity(nil, h.ListEmployees))

	expectStatus(t, w, http.StatusUnauthorized, 10002)
	if mock.gotIdent != nil {
		t.Error("anonymous request should reach the service with nil identity")
	}
}

func TestEmployeeHandler_FilterEmployees_Query(t *testing.T) {
	mock := &mockEmployeeService{}
	h := NewEmployeeHandler(mock)

	w := serve("GET", "/employees/filter?status=Active&department_id=1", "/employees/filter", nil,
		withIdentity(managerIdentity, h.FilterEmployees))

	expectStatus(t, w, http.StatusOK, 0)
	if mock.gotFilter == nil || mock.gotFilter.Status != model.StatusActive ||
		mock.gotFilter.DepartmentID == nil || *mock.gotFilter.DepartmentID != 1 || mock.gotFilter.ManagerID != nil {
		t.Errorf("unexpected filter: %+v", mock.gotFilter)
	}

	w = serve("GET", "/employees/filter?status=Retired", "/employees/filter", nil,
		withIdentity(managerIdentity, h.FilterEmployees))
	expectStatus(t, w, http.StatusBadRequest, 10001)
}

func TestEmployeeHandler_CreateEmployee(t *testing.T) {
	mock := &mockEmployeeService{result: &dto.EmployeeResponse{ID: 8}}
	h := NewEmployeeHandler(mock)

	valid := dto.CreateEmployeeRequest{
		FirstName: "Eve", LastName: "Doe", Telephone: "5550100", Email: "eve@hr.test",
	}
	w := serve("POST", "/employees", "/employees", jsonBody(valid), withIdentity(managerIdentity, h.CreateEmployee))
	expectStatus(t, w, http.StatusCreated, 0)

	invalid := valid
	invalid.Telephone = "123"
	w = serve("POST", "/employees", "/employees", jsonBody(invalid), withIdentity(managerIdentity, h.CreateEmployee))
	expectStatus(t, w, http.StatusBadRequest, 10001)

	mock.err = service.ErrEmailExists
	w = serve("POST", "/employees", "/employees", jsonBody(valid), withIdentity(managerIdentity, h.CreateEmployee))
	expectStatus(t, w, http.StatusConflict, 10005)
}

func TestEmployeeHandler_UpdateEmployee(t *testing.T) {
	mock := &mockEmployeeService{result: &dto.EmployeeResponse{ID: 3}}
	h := NewEmployeeHandler(mock)
	req := dto.UpdateEmployeeRequest{
		FirstName: "Alice", LastName: "Test", Email: "alice@hr.test", Telephone: "5550100", Status: model.StatusActive,
	}

	w := serve("PUT", "/employees/3", "/employees/:id", jsonBody(req), withIdentity(managerIdentity, h.UpdateEmployee))
	expectStatus(t, w, http.StatusOK, 0)
	if mock.gotID != 3 {
		t.Errorf("expected employee id 3, got %d", mock.gotID)
	}

	w = serve("PUT", "/employees/abc", "/employees/:id", jsonBody(req), withIdentity(managerIdentity, h.UpdateEmployee))
	expectStatus(t, w, http.StatusBadRequest, 10001)

	mock.err = service.ErrNotSubordinate
	w = serve("PUT", "/employees/9", "/employees/:id", jsonBody(req), withIdentity(managerIdentity, h.UpdateEmployee))
	expectStatus(t, w, http.StatusForbidden, 10003)
}

func TestEmployeeHandler_UpdateStatus(t *testing.T) {
	mock := &mockEmployeeService{result: &dto.EmployeeResponse{ID: 3}}
	h := NewEmployeeHandler(mock)

	w := serve("PUT", "/employees/3/status", "/employees/:id/status",
		jsonBody(dto.UpdateStatusRequest{Status: model.StatusInactive}), withIdentity(managerIdentity, h.UpdateStatus))
	expectStatus(t, w, http.StatusOK, 0)
	if mock.gotStatus != model.StatusInactive {
		t.Errorf("expected Inactive, got %s", mock.gotStatus)
	}

	w = serve("PUT", "/employees/3/status", "/employees/:id/status",
		jsonBody(map[string]string{"status": "Paused"}), withIdentity(managerIdentity, h.UpdateStatus))
	expectStatus(t, w, http.StatusBadRequest, 10001)
}

// ═══════════════════════════════════════════════════════════
// DepartmentHandler / ManagerHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDepartmentHandler_CreateDepartment(t *testing.T) {
	mock := &mockDepartmentService{result: &dto.DepartmentResponse{ID: 3, Name: "Finance"}}
	h := NewDepartmentHandler(mock)

	valid := dto.CreateDepartmentRequest{Name: "Finance", Status: model.StatusActive, ManagerID: 2}
	w := serve("POST", "/departments", "/departments", jsonBody(valid), withIdentity(managerIdentity, h.CreateDepartment))
	expectStatus(t, w, http.StatusCreated, 0)

	w = serve("POST", "/departments", "/departments",
		jsonBody(dto.CreateDepartmentRequest{Name: "F", Status: model.StatusActive, ManagerID: 2}),
		withIdentity(managerIdentity, h.CreateDepartment))
	expectStatus(t, w, http.StatusBadRequest, 10001)

	mock.err = service.ErrManagerNotFound
	w = serve("POST", "/departments", "/departments", jsonBody(valid), withIdentity(managerIdentity, h.CreateDepartment))
	resp := expectStatus(t, w, http.StatusBadRequest, 10001)
	if resp.Message != service.ErrManagerNotFound.Message {
		t.Errorf("expected message %q, got %q", service.ErrManagerNotFound.Message, resp.Message)
	}
}

func TestDepartmentHandler_UpdateStatus_NotFound(t *testing.T) {
	mock := &mockDepartmentService{err: service.ErrDepartmentNotFound}
	h := NewDepartmentHandler(mock)

	w := serve("PUT", "/departments/99/status", "/departments/:id/status",
		jsonBody(dto.UpdateStatusRequest{Status: model.StatusInactive}), withIdentity(managerIdentity, h.UpdateStatus))

	expectStatus(t, w, http.StatusNotFound, 10004)
	if mock.gotID != 99 {
		t.Errorf("expected department id 99, got %d", mock.gotID)
	}
}

func TestDepartmentHandler_ListDepartments_Forbidden(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{err: service.ErrDepartmentListDenied})

	w := serve("GET", "/departments", "/departments", nil, withIdentity(managerIdentity, h.ListDepartments))

	expectStatus(t, w, http.StatusForbidden, 10003)
}

func TestManagerHandler_ListManagers(t *testing.T) {
	h := NewManagerHandler(&mockManagerService{})

	w := serve("GET", "/managers", "/managers", nil, h.ListManagers)

	expectStatus(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), `"list":[]`) {
		t.Errorf("empty result should be rendered as [], got %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportEmployees(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "employees_20260301.xlsx"}
	h := NewExportHandler(mock)

	w := serve("GET", "/employees/export", "/employees/export", nil, withIdentity(managerIdentity, h.ExportEmployees))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "employees_20260301.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestExportHandler_ExportEmployees_Unauthenticated(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: auth.ErrUnauthenticated})

	w := serve("GET", "/employees/export", "/employees/export", nil, withIdentity(nil, h.ExportEmployees))

	expectStatus(t, w, http.StatusUnauthorized, 10002)
}
