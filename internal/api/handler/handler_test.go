package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"noah/backend/internal/dto"
	"noah/backend/internal/model"
	"noah/backend/internal/service"
	pkgerrors "noah/backend/pkg/errors"
	"noah/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock CheckService ──

type mockCheckService struct {
	checkInResult  *dto.CheckRecordResponse
	checkInErr     error
	checkOutResult *dto.CheckRecordResponse
	checkOutErr    error
	currentResult  *dto.CurrentStatusResponse
	currentErr     error
	getResult      *dto.CheckRecordResponse
	getErr         error
	listResult     []dto.CheckRecordResponse
	listTotal      int64
	listErr        error
	createResult   *dto.CheckRecordResponse
	createErr      error
	updateResult   *dto.CheckRecordResponse
	updateErr      error
	cancelResult   *dto.CheckRecordResponse
	cancelErr      error
	deleteErr      error
	photoResult    *model.Photo
	photoErr       error
}

func (m *mockCheckService) CheckIn(_ context.Context, _, _ string, _ *dto.CheckInRequest) (*dto.CheckRecordResponse, error) {
	return m.checkInResult, m.checkInErr
}
func (m *mockCheckService) CheckOut(_ context.Context, _, _, _ string, _ *dto.CheckOutRequest) (*dto.CheckRecordResponse, error) {
	return m.checkOutResult, m.checkOutErr
}
func (m *mockCheckService) GetCurrent(_ context.Context, _ string) (*dto.CurrentStatusResponse, error) {
	return m.currentResult, m.currentErr
}
func (m *mockCheckService) GetByID(_ context.Context, _, _ string) (*dto.CheckRecordResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCheckService) List(_ context.Context, _ string, _ *dto.CheckRecordListRequest) ([]dto.CheckRecordResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockCheckService) ListMy(_ context.Context, _, _ string, _ *dto.CheckRecordListRequest) ([]dto.CheckRecordResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockCheckService) Create(_ context.Context, _ string, _ *dto.CreateCheckRecordRequest, _ string) (*dto.CheckRecordResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCheckService) Update(_ context.Context, _, _ string, _ *dto.UpdateCheckRecordRequest, _ string) (*dto.CheckRecordResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCheckService) Cancel(_ context.Context, _, _ string, _ string) (*dto.CheckRecordResponse, error) {
	return m.cancelResult, m.cancelErr
}
func (m *mockCheckService) Delete(_ context.Context, _, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockCheckService) GetPhoto(_ context.Context, _, _ string) (*model.Photo, error) {
	return m.photoResult, m.photoErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// injectAuth 模拟 JWT 中间件注入的上下文
func injectAuth(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("role", role)
		c.Set("company_id", "test-company-id")
		c.Next()
	}
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

func newCheckRouter(mock *mockCheckService) *gin.Engine {
	h := NewCheckRecordHandler(mock)
	r := gin.New()
	r.Use(injectAuth(model.RoleProfessional))
	r.POST("/check-records/check-in", h.CheckIn)
	r.POST("/check-records/:id/check-out", h.CheckOut)
	r.GET("/check-records/current", h.GetCurrent)
	r.PUT("/check-records/:id", h.Update)
	r.GET("/check-records/photos/:hash", h.GetPhoto)
	return r
}

const testAppointmentID = "3f0e8a44-7c1b-4b6e-9b2e-123456789abc"

// ═══════════════════════════════════════════════════════════
// CheckRecordHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCheckIn_Success(t *testing.T) {
	mock := &mockCheckService{
		checkInResult: &dto.CheckRecordResponse{
			ID:     "record-1",
			Status: model.CheckStatusCheckedIn,
		},
	}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/check-records/check-in", jsonBody(dto.CheckInRequest{
		AppointmentID: testAppointmentID,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestCheckIn_BadJSON(t *testing.T) {
	r := newCheckRouter(&mockCheckService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/check-records/check-in", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	mock := &mockCheckService{checkInErr: service.ErrAlreadyCheckedIn}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/check-records/check-in", jsonBody(dto.CheckInRequest{
		AppointmentID: testAppointmentID,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 17003 {
		t.Errorf("expected error code 17003, got %d", resp.Code)
	}
}

func TestCheckIn_NotOwner(t *testing.T) {
	mock := &mockCheckService{checkInErr: service.ErrNotRecordOwner}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/check-records/check-in", jsonBody(dto.CheckInRequest{
		AppointmentID: testAppointmentID,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

// 乐观锁冲突必须映射为 409，客户端以此区分"规则拒绝"与"需要刷新重试"
func TestUpdate_OptimisticLockConflict(t *testing.T) {
	mock := &mockCheckService{updateErr: pkgerrors.ErrOptimisticLock}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/check-records/record-1", jsonBody(dto.UpdateCheckRecordRequest{
		Version: 1,
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != 17010 {
		t.Errorf("expected error code 17010, got %d", resp.Code)
	}
}

func TestCheckOut_NotCheckedIn(t *testing.T) {
	mock := &mockCheckService{checkOutErr: service.ErrNotCheckedIn}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/check-records/record-1/check-out", jsonBody(dto.CheckOutRequest{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 17004 {
		t.Errorf("expected error code 17004, got %d", resp.Code)
	}
}

func TestGetCurrent_Success(t *testing.T) {
	mock := &mockCheckService{
		currentResult: &dto.CurrentStatusResponse{
			Pending: []dto.CheckRecordResponse{{ID: "record-1", Status: model.CheckStatusPending}},
		},
	}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/check-records/current", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestGetPhoto(t *testing.T) {
	mock := &mockCheckService{
		photoResult: &model.Photo{
			PhotoHash: "abc",
			MimeType:  "image/png",
			Data:      []byte{0x89, 0x50, 0x4E, 0x47},
		},
	}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/check-records/photos/abc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc == "" {
		t.Error("内容寻址照片应设置缓存头")
	}
}

func TestGetPhoto_NotFound(t *testing.T) {
	mock := &mockCheckService{photoErr: service.ErrPhotoNotFound}
	r := newCheckRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/check-records/photos/missing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
