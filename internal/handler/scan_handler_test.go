package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"ticket-backoffice/internal/model"
	apperrors "ticket-backoffice/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockScanService struct{ mock.Mock }

func (m *mockScanService) Preview(ctx context.Context, eventID uuid.UUID, rawValue string, staffID *int) (*model.ScanResponse, error) {
	args := m.Called(ctx, eventID, rawValue, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanResponse), args.Error(1)
}

func (m *mockScanService) Confirm(ctx context.Context, req model.ConfirmRequest, staffID *int) (*model.ConfirmResponse, error) {
	args := m.Called(ctx, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfirmResponse), args.Error(1)
}

func setupScanRouter(svc *mockScanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewScanHandler(svc).RegisterRoutes(router)
	return router
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var testEventID = "a2e9dd30-4f2a-4f6a-9c1d-6b7c22f00001"

func TestScan_Success(t *testing.T) {
	svc := &mockScanService{}
	codeID := 10
	svc.On("Preview", mock.Anything, uuid.MustParse(testEventID), "NOCH1234", (*int)(nil)).
		Return(&model.ScanResponse{
			Success:   true,
			Result:    model.ScanResultValid,
			MatchType: model.MatchTypeCode,
			CodeID:    &codeID,
		}, nil)

	router := setupScanRouter(svc)
	w := performRequest(router, http.MethodPost, "/api/scan",
		`{"code":"NOCH1234","event_id":"`+testEventID+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":"valid"`)
	assert.Contains(t, w.Body.String(), `"match_type":"code"`)
	svc.AssertExpectations(t)
}

func TestScan_BusinessRejectionStillAnswers200(t *testing.T) {
	// preview is a query; an expired classification is a valid answer
	svc := &mockScanService{}
	svc.On("Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&model.ScanResponse{
			Result:    model.ScanResultExpired,
			Reason:    model.ReasonEntryCutoff,
			MatchType: model.MatchTypeCode,
		}, nil)

	router := setupScanRouter(svc)
	w := performRequest(router, http.MethodPost, "/api/scan",
		`{"code":"NOCH1234","event_id":"`+testEventID+`"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"entry_cutoff"`)
}

func TestScan_MalformedJSON(t *testing.T) {
	svc := &mockScanService{}
	router := setupScanRouter(svc)

	w := performRequest(router, http.MethodPost, "/api/scan", `{"code":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JSON inválido")
	svc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScan_MissingFields(t *testing.T) {
	svc := &mockScanService{}
	router := setupScanRouter(svc)

	w := performRequest(router, http.MethodPost, "/api/scan", `{"code":"NOCH1234"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScan_EventNotFound(t *testing.T) {
	svc := &mockScanService{}
	svc.On("Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrEventNotFound)

	router := setupScanRouter(svc)
	w := performRequest(router, http.MethodPost, "/api/scan",
		`{"code":"NOCH1234","event_id":"`+testEventID+`"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScan_InternalError(t *testing.T) {
	svc := &mockScanService{}
	svc.On("Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))

	router := setupScanRouter(svc)
	w := performRequest(router, http.MethodPost, "/api/scan",
		`{"code":"NOCH1234","event_id":"`+testEventID+`"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestConfirmEndpoint_Success(t *testing.T) {
	svc := &mockScanService{}
	codeID := 10
	uses := 3
	svc.On("Confirm", mock.Anything, model.ConfirmRequest{CodeID: &codeID}, (*int)(nil)).
		Return(&model.ConfirmResponse{Success: true, Result: "confirmed", CodeID: &codeID, Uses: &uses}, nil)

	router := setupScanRouter(svc)
	w := performRequest(router, http.MethodPost, "/api/scan/confirm", `{"code_id":10}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":"confirmed"`)
	svc.AssertExpectations(t)
}

func TestConfirmEndpoint_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantResult string
	}{
		{"duplicate ticket", apperrors.ErrTicketUsed, http.StatusBadRequest, "duplicate"},
		{"inactive code", apperrors.ErrCodeInactive, http.StatusBadRequest, "inactive"},
		{"expired code", apperrors.ErrCodeExpired, http.StatusBadRequest, "expired"},
		{"entry cutoff", apperrors.ErrEntryCutoff, http.StatusBadRequest, "expired"},
		{"exhausted code", apperrors.ErrCodeExhausted, http.StatusBadRequest, "exhausted"},
		{"code not found", apperrors.ErrCodeNotFound, http.StatusNotFound, "not_found"},
		{"ticket not found", apperrors.ErrTicketNotFound, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockScanService{}
			svc.On("Confirm", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			router := setupScanRouter(svc)
			w := performRequest(router, http.MethodPost, "/api/scan/confirm", `{"code_id":10}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"result":"`+tt.wantResult+`"`)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestConfirmEndpoint_MissingIDs(t *testing.T) {
	svc := &mockScanService{}
	svc.On("Confirm", mock.Anything, model.ConfirmRequest{}, (*int)(nil)).
		Return(nil, apperrors.ErrInvalidInput)

	router := setupScanRouter(svc)
	w := performRequest(router, http.MethodPost, "/api/scan/confirm", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEndpoint_EntryCutoffReason(t *testing.T) {
	svc := &mockScanService{}
	svc.On("Confirm", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrEntryCutoff)

	router := setupScanRouter(svc)
	w := performRequest(router, http.MethodPost, "/api/scan/confirm", `{"code_id":10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"entry_cutoff"`)
}
