package rest_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classledger/attendance/internal/api/middleware"
	"github.com/classledger/attendance/internal/api/rest"
	"github.com/classledger/attendance/internal/domain"
	"github.com/classledger/attendance/internal/logger"
	"github.com/classledger/attendance/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)

	code := m.Run()
	os.Exit(code)
}

// testHandlerMocks contains all the mocks needed for testing the REST handler
type testHandlerMocks struct {
	ctrl         *gomock.Controller
	composer     *mocks.MockComposer
	orchestrator *mocks.MockOrchestrator
	ledger       *mocks.MockLedgerClient
	router       *gin.Engine
}

// setupTestHandler creates the mocks and a router with all routes registered.
// Auth is left unconfigured so write routes are open in tests.
func setupTestHandler(t *testing.T) *testHandlerMocks {
	ctrl := gomock.NewController(t)

	tm := &testHandlerMocks{
		ctrl:         ctrl,
		composer:     mocks.NewMockComposer(ctrl),
		orchestrator: mocks.NewMockOrchestrator(ctrl),
		ledger:       mocks.NewMockLedgerClient(ctrl),
	}

	tm.router = gin.New()
	handler := rest.NewHandler(tm.composer, tm.orchestrator, tm.ledger)
	rest.SetupRoutes(tm.router, handler, middleware.AuthConfig{})
	return tm
}

func (tm *testHandlerMocks) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	tm.router.ServeHTTP(w, req)
	return w
}

func TestHandler_Health(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.ledger.EXPECT().SessionCount(gomock.Any()).Return(uint64(4), nil)

	w := tm.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"session_count":4`)
}

func TestHandler_Health_LedgerDown(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.ledger.EXPECT().SessionCount(gomock.Any()).Return(uint64(0), domain.ErrLedgerUnavailable)

	w := tm.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandler_ListSessions(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	sessions := []domain.Session{
		{ID: 1, Title: "Second"},
		{ID: 0, Title: "First"},
	}
	tm.composer.EXPECT().ListAll(gomock.Any(), gomock.Nil()).Return(sessions, nil)

	w := tm.do(http.MethodGet, "/v1/sessions", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestHandler_ListSessions_WithViewer(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	viewer := common.HexToAddress("0x2222222222222222222222222222222222222222")
	tm.composer.EXPECT().ListAll(gomock.Any(), &viewer).Return([]domain.Session{}, nil)

	w := tm.do(http.MethodGet, "/v1/sessions?viewer=0x2222222222222222222222222222222222222222", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_ListSessions_InvalidViewer(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	w := tm.do(http.MethodGet, "/v1/sessions?viewer=not-an-address", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListSessions_CreatorFilter(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	creator := common.HexToAddress("0x4444444444444444444444444444444444444444")
	sessions := []domain.Session{
		{ID: 2, Creator: creator.Hex()},
		{ID: 1, Creator: "0x9999999999999999999999999999999999999999"},
		{ID: 0, Creator: strings.ToLower(creator.Hex())},
	}
	tm.composer.EXPECT().ListAll(gomock.Any(), gomock.Nil()).Return(sessions, nil)

	w := tm.do(http.MethodGet, "/v1/sessions?creator="+creator.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	// Matching is case-insensitive on the hex address
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestHandler_GetSession(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	session := &domain.Session{ID: 3, Title: "Networks", Lifecycle: domain.LifecycleUpcoming}
	tm.composer.EXPECT().GetOne(gomock.Any(), uint64(3), gomock.Nil()).Return(session, nil)

	w := tm.do(http.MethodGet, "/v1/sessions/3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Networks"`)
}

func TestHandler_GetSession_NotFound(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.composer.EXPECT().GetOne(gomock.Any(), uint64(99), gomock.Nil()).
		Return(nil, domain.ErrSessionNotFound)

	w := tm.do(http.MethodGet, "/v1/sessions/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetSession_InvalidID(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	w := tm.do(http.MethodGet, "/v1/sessions/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CreateSession(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().CreateSession(gomock.Any(), "Algorithms", gomock.Any()).
		DoAndReturn(func(_ interface{}, _ string, schedule domain.SessionMetadata) (*domain.Session, error) {
			require.NotNil(t, schedule.StartDate)
			assert.Equal(t, "2025-03-10", *schedule.StartDate)
			return &domain.Session{ID: 5, Title: "Algorithms"}, nil
		})

	w := tm.do(http.MethodPost, "/v1/sessions",
		`{"name":"Algorithms","start_date":"2025-03-10","start_time":"09:00","duration_minutes":50}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":5`)
}

func TestHandler_CreateSession_MissingName(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	w := tm.do(http.MethodPost, "/v1/sessions", `{"start_date":"2025-03-10"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_CreateSession_Reverted(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().CreateSession(gomock.Any(), "Algorithms", gomock.Any()).
		Return(nil, domain.NewRevertError("not authorized"))

	w := tm.do(http.MethodPost, "/v1/sessions", `{"name":"Algorithms"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "not authorized")
}

func TestHandler_CreateSession_EventMissing(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().CreateSession(gomock.Any(), "Algorithms", gomock.Any()).
		Return(nil, domain.ErrEventNotFound)

	w := tm.do(http.MethodPost, "/v1/sessions", `{"name":"Algorithms"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandler_EditSession_NotUpcoming(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().EditSession(gomock.Any(), uint64(3), gomock.Any()).
		Return(nil, domain.ErrEditNotAllowed)

	w := tm.do(http.MethodPatch, "/v1/sessions/3", `{"location":"Room 204"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Register(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().Register(gomock.Any(), uint64(2)).Return("0xaa", nil)

	w := tm.do(http.MethodPost, "/v1/sessions/2/register", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tx_hash":"0xaa"`)
}

func TestHandler_Register_Conflict(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().Register(gomock.Any(), uint64(2)).
		Return("", domain.ErrAlreadyRegistered)

	w := tm.do(http.MethodPost, "/v1/sessions/2/register", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_CheckIn_NotRegistered(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().CheckIn(gomock.Any(), uint64(2)).
		Return("", domain.ErrNotRegistered)

	w := tm.do(http.MethodPost, "/v1/sessions/2/checkin", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_CheckIn_InsufficientFunds(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().CheckIn(gomock.Any(), uint64(2)).
		Return("", domain.ErrInsufficientFunds)

	w := tm.do(http.MethodPost, "/v1/sessions/2/checkin", "")
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestHandler_CheckIn_UserRejected(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.orchestrator.EXPECT().CheckIn(gomock.Any(), uint64(2)).
		Return("", domain.ErrUserRejected)

	w := tm.do(http.MethodPost, "/v1/sessions/2/checkin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
