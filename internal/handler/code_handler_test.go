package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCodeService struct{ mock.Mock }

func (m *mockCodeService) ListByEvent(ctx context.Context, eventID uuid.UUID, typeFilter *model.CodeType) ([]*model.Code, error) {
	args := m.Called(ctx, eventID, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Code), args.Error(1)
}

func (m *mockCodeService) IssueBatch(ctx context.Context, eventID uuid.UUID, params service.IssueBatchParams) ([]*model.Code, error) {
	args := m.Called(ctx, eventID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Code), args.Error(1)
}

func (m *mockCodeService) IssueTicket(ctx context.Context, eventID uuid.UUID, params service.IssueTicketParams) (*model.Ticket, error) {
	args := m.Called(ctx, eventID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *mockCodeService) ListTicketsByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func setupCodeRouter(svc *mockCodeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCodeHandler(svc).RegisterRoutes(router)
	return router
}

func TestListCodes_NoFilter(t *testing.T) {
	svc := &mockCodeService{}
	svc.On("ListByEvent", mock.Anything, uuid.MustParse(testEventID), (*model.CodeType)(nil)).
		Return([]*model.Code{{ID: 1, Type: model.CodeTypeGeneral}}, nil)

	router := setupCodeRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/events/"+testEventID+"/codes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListCodes_TypeQueryFilter(t *testing.T) {
	svc := &mockCodeService{}
	courtesy := model.CodeTypeCourtesy
	svc.On("ListByEvent", mock.Anything, uuid.MustParse(testEventID), &courtesy).
		Return([]*model.Code{}, nil)

	router := setupCodeRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/events/"+testEventID+"/codes?type=courtesy", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestListCodes_UnknownTypeRejected(t *testing.T) {
	svc := &mockCodeService{}
	router := setupCodeRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/events/"+testEventID+"/codes?type=vip", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListByEvent", mock.Anything, mock.Anything, mock.Anything)
}
