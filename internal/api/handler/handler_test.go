package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/scheduling"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	getCurrentResult *dto.MemberResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) GetCurrentMember(_ context.Context, _ string) (*dto.MemberResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock MemberService ──

type mockMemberService struct {
	createResult  *dto.CreateMemberResponse
	createErr     error
	getResult     *dto.MemberResponse
	getErr        error
	listResult    []dto.MemberResponse
	listTotal     int64
	listErr       error
	updateResult  *dto.MemberResponse
	updateErr     error
	deactivateErr error
}

func (m *mockMemberService) CreateMember(_ context.Context, _ *dto.CreateMemberRequest, _ string) (*dto.CreateMemberResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockMemberService) GetByID(_ context.Context, _ string) (*dto.MemberResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockMemberService) List(_ context.Context, _ *dto.MemberListRequest) ([]dto.MemberResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockMemberService) Update(_ context.Context, _ string, _ *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockMemberService) Deactivate(_ context.Context, _, _ string) error {
	return m.deactivateErr
}

// ── Mock UnavailabilityService ──

type mockUnavailabilityService struct {
	createResult *dto.UnavailablePeriodResponse
	createErr    error
	listResult   []dto.UnavailablePeriodResponse
	listErr      error
	deleteErr    error
}

func (m *mockUnavailabilityService) Create(_ context.Context, _ *dto.CreateUnavailablePeriodRequest) (*dto.UnavailablePeriodResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockUnavailabilityService) ListByMember(_ context.Context, _ string) ([]dto.UnavailablePeriodResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockUnavailabilityService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	generateResult *dto.ScheduleResponse
	generateErr    error
	getResult      *dto.ScheduleResponse
	getErr         error
	listResult     []dto.ScheduleResponse
	listTotal      int64
	listErr        error
	publishResult  *dto.ScheduleResponse
	publishErr     error
	archiveResult  *dto.ScheduleResponse
	archiveErr     error
	auditLogResult []dto.AuditEntryResponse
	auditLogErr    error
}

func (m *mockScheduleService) Generate(_ context.Context, _ *dto.GenerateScheduleRequest, _ string) (*dto.ScheduleResponse, error) {
	return m.generateResult, m.generateErr
}
func (m *mockScheduleService) GetByID(_ context.Context, _ string) (*dto.ScheduleResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockScheduleService) List(_ context.Context, _ *dto.ScheduleListRequest) ([]dto.ScheduleResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockScheduleService) Publish(_ context.Context, _, _ string) (*dto.ScheduleResponse, error) {
	return m.publishResult, m.publishErr
}
func (m *mockScheduleService) Archive(_ context.Context, _, _ string) (*dto.ScheduleResponse, error) {
	return m.archiveResult, m.archiveErr
}
func (m *mockScheduleService) AuditLog(_ context.Context, _ string) ([]dto.AuditEntryResponse, error) {
	return m.auditLogResult, m.auditLogErr
}

// ── Mock SwapService ──

type mockSwapService struct {
	createResult        *dto.SwapResponse
	createErr           error
	decideAsPeerResult  *dto.SwapResponse
	decideAsPeerErr     error
	decideAsAdminResult *dto.SwapResponse
	decideAsAdminErr    error
	listResult          []dto.SwapResponse
	listTotal           int64
	listErr             error
}

func (m *mockSwapService) Create(_ context.Context, _ *dto.CreateSwapRequest, _ string) (*dto.SwapResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockSwapService) DecideAsPeer(_ context.Context, _ string, _ bool) (*dto.SwapResponse, error) {
	return m.decideAsPeerResult, m.decideAsPeerErr
}
func (m *mockSwapService) DecideAsAdmin(_ context.Context, _ string, _ bool, _ string) (*dto.SwapResponse, error) {
	return m.decideAsAdminResult, m.decideAsAdminErr
}
func (m *mockSwapService) ListPending(_ context.Context, _, _ int) ([]dto.SwapResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ── Mock FairnessService ──

type mockFairnessService struct {
	listResult     []dto.FairnessCountResponse
	listErr        error
	recomputeCount int
	recomputeErr   error
}

func (m *mockFairnessService) ListByMember(_ context.Context, _ string) ([]dto.FairnessCountResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockFairnessService) Recompute(_ context.Context, _ *dto.RecomputeFairnessRequest) (int, error) {
	return m.recomputeCount, m.recomputeErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportScheduleExcel(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportScheduleCSV(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportMemberCalendar(_ context.Context, _ string, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Test helpers ──

func setAuth(c *gin.Context) {
	c.Set("member_id", "test-member-id")
	c.Set("role", "admin")
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

// ── AuthHandler tests ──

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			TokenType:    "Bearer",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_MemberInactive(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrMemberInactive}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Success(t *testing.T) {
	mock := &mockAuthService{getCurrentResult: &dto.MemberResponse{MemberID: "test-member-id", Name: "Admin"}}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		setAuth(c)
		h.Me(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Me_NotFound(t *testing.T) {
	mock := &mockAuthService{getCurrentErr: service.ErrMemberNotFound}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		setAuth(c)
		h.Me(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOld(t *testing.T) {
	mock := &mockAuthService{changePassErr: service.ErrOldPasswordWrong}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_NilRedis(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ── MemberHandler tests ──

func TestMemberHandler_Create_Success(t *testing.T) {
	mock := &mockMemberService{createResult: &dto.CreateMemberResponse{
		Member:       dto.MemberResponse{MemberID: "m1", Name: "Alice"},
		TempPassword: "temp1234",
	}}
	h := NewMemberHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/members", jsonBody(dto.CreateMemberRequest{
		Name: "Alice", Email: "alice@example.com", Role: "member", OfficeDays: 0b11111,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/members", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestMemberHandler_Create_EmailExists(t *testing.T) {
	mock := &mockMemberService{createErr: service.ErrEmailExists}
	h := NewMemberHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/members", jsonBody(dto.CreateMemberRequest{
		Name: "Alice", Email: "alice@example.com", Role: "member", OfficeDays: 0b11111,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/members", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMemberHandler_Get_NotFound(t *testing.T) {
	mock := &mockMemberService{getErr: service.ErrMemberNotFound}
	h := NewMemberHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/members/nope", nil)

	r := gin.New()
	r.GET("/members/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestMemberHandler_List_Success(t *testing.T) {
	mock := &mockMemberService{
		listResult: []dto.MemberResponse{{MemberID: "m1", Name: "Alice"}},
		listTotal:  1,
	}
	h := NewMemberHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/members?page=1&page_size=20", nil)

	r := gin.New()
	r.GET("/members", h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestMemberHandler_Deactivate_SelfDeactivate(t *testing.T) {
	mock := &mockMemberService{deactivateErr: service.ErrSelfDeactivate}
	h := NewMemberHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/members/test-member-id", nil)

	r := gin.New()
	r.DELETE("/members/:id", func(c *gin.Context) {
		setAuth(c)
		h.Deactivate(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ── UnavailabilityHandler tests ──

func TestUnavailabilityHandler_Create_Inverted(t *testing.T) {
	mock := &mockUnavailabilityService{createErr: service.ErrUnavailablePeriodInverted}
	h := NewUnavailabilityHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/unavailable-periods", jsonBody(dto.CreateUnavailablePeriodRequest{
		MemberID: "m1", StartDate: time.Now(), EndDate: time.Now().Add(-24 * time.Hour),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/unavailable-periods", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUnavailabilityHandler_Delete_NotFound(t *testing.T) {
	mock := &mockUnavailabilityService{deleteErr: service.ErrUnavailablePeriodNotFound}
	h := NewUnavailabilityHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/unavailable-periods/nope", nil)

	r := gin.New()
	r.DELETE("/unavailable-periods/:id", h.Delete)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ── ScheduleHandler tests ──

func TestScheduleHandler_Generate_EndBeforeStart(t *testing.T) {
	mock := &mockScheduleService{generateErr: scheduling.ErrEndBeforeStart}
	h := NewScheduleHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/schedules", jsonBody(dto.GenerateScheduleRequest{
		StartDate: time.Now(), EndDate: time.Now().Add(-24 * time.Hour),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/schedules", func(c *gin.Context) {
		setAuth(c)
		h.Generate(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestScheduleHandler_Generate_Locked(t *testing.T) {
	mock := &mockScheduleService{generateErr: service.ErrGenerationLocked}
	h := NewScheduleHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/schedules", jsonBody(dto.GenerateScheduleRequest{
		StartDate: time.Now(), EndDate: time.Now().Add(24 * time.Hour),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/schedules", func(c *gin.Context) {
		setAuth(c)
		h.Generate(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != 423 {
		t.Errorf("expected 423, got %d", w.Code)
	}
}

func TestScheduleHandler_Publish_NotDraft(t *testing.T) {
	mock := &mockScheduleService{publishErr: service.ErrScheduleNotDraft}
	h := NewScheduleHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/schedules/s1/publish", nil)

	r := gin.New()
	r.POST("/schedules/:id/publish", func(c *gin.Context) {
		setAuth(c)
		h.Publish(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestScheduleHandler_AuditLog_NotFound(t *testing.T) {
	mock := &mockScheduleService{auditLogErr: service.ErrScheduleNotFound}
	h := NewScheduleHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/schedules/s1/audit-log", nil)

	r := gin.New()
	r.GET("/schedules/:id/audit-log", h.AuditLog)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestScheduleHandler_AuditLog_Success(t *testing.T) {
	mock := &mockScheduleService{auditLogResult: []dto.AuditEntryResponse{
		{AuditEntryID: "e1", Kind: "ATM_MORNING", ChosenMemberID: "m1"},
	}}
	h := NewScheduleHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/schedules/s1/audit-log", nil)

	r := gin.New()
	r.GET("/schedules/:id/audit-log", h.AuditLog)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ── SwapHandler tests ──

func TestSwapHandler_Create_AssignmentNotActive(t *testing.T) {
	mock := &mockSwapService{createErr: service.ErrAssignmentNotActive}
	h := NewSwapHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/swaps", jsonBody(dto.CreateSwapRequest{
		AssignmentID: "a1", ProposedMemberID: "m2",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/swaps", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSwapHandler_DecideAsAdmin_ConstraintViolation(t *testing.T) {
	mock := &mockSwapService{decideAsAdminErr: &scheduling.ConstraintViolation{Constraint: "distinctness"}}
	h := NewSwapHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/swaps/s1/admin-decision", jsonBody(dto.SwapDecisionRequest{Accept: true}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/swaps/:id/admin-decision", func(c *gin.Context) {
		setAuth(c)
		h.DecideAsAdmin(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15005 {
		t.Errorf("expected error code 15005, got %d", resp.Code)
	}
}

func TestSwapHandler_DecideAsPeer_NotAwaitingPeer(t *testing.T) {
	mock := &mockSwapService{decideAsPeerErr: service.ErrSwapNotAwaitingPeer}
	h := NewSwapHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/swaps/s1/peer-decision", jsonBody(dto.SwapDecisionRequest{Accept: true}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/swaps/:id/peer-decision", h.DecideAsPeer)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSwapHandler_ListPending_DefaultPaging(t *testing.T) {
	mock := &mockSwapService{listResult: []dto.SwapResponse{{SwapID: "s1"}}, listTotal: 1}
	h := NewSwapHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/swaps", nil)

	r := gin.New()
	r.GET("/swaps", h.ListPending)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ── FairnessHandler tests ──

func TestFairnessHandler_ListByMember_Success(t *testing.T) {
	mock := &mockFairnessService{listResult: []dto.FairnessCountResponse{{MemberID: "m1", Kind: "atm", Count: 3}}}
	h := NewFairnessHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/members/m1/fairness", nil)

	r := gin.New()
	r.GET("/members/:id/fairness", h.ListByMember)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestFairnessHandler_Recompute_Success(t *testing.T) {
	mock := &mockFairnessService{recomputeCount: 42}
	h := NewFairnessHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/fairness/recompute", jsonBody(dto.RecomputeFairnessRequest{AsOf: time.Now()}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/fairness/recompute", h.Recompute)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ── ExportHandler tests ──

func TestExportHandler_ExportExcel_Success(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("workbook-bytes"), filename: "schedule.xlsx"}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/schedules/s1.xlsx", nil)

	r := gin.New()
	r.GET("/export/schedules/:id.xlsx", h.ExportExcel)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header to be set")
	}
}

func TestExportHandler_ExportCSV_NoSchedule(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoSchedule}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/schedules/nope.csv", nil)

	r := gin.New()
	r.GET("/export/schedules/:id.csv", h.ExportCSV)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExportHandler_ExportMemberCalendar_BadDates(t *testing.T) {
	mock := &mockExportService{}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/members/m1/calendar", nil)

	r := gin.New()
	r.GET("/export/members/:id/calendar", h.ExportMemberCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_ExportMemberCalendar_Success(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("BEGIN:VCALENDAR"), filename: "m1.ics"}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/members/m1/calendar?start=2026-01-01&end=2026-03-01", nil)

	r := gin.New()
	r.GET("/export/members/:id/calendar", h.ExportMemberCalendar)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
