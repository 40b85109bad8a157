package handler

import (
	"errors"
	"net/http"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/service"
	apperrors "ticket-backoffice/pkg/app_errors"
	"ticket-backoffice/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CodeHandler struct {
	service service.CodeService
}

func NewCodeHandler(service service.CodeService) *CodeHandler {
	return &CodeHandler{service: service}
}

func (h *CodeHandler) RegisterRoutes(r gin.IRouter) {
	router := r.Group("/api")
	{
		router.GET("events/:uuid/codes", h.ListByEvent)
		router.POST("events/:uuid/codes", h.IssueBatch)
		router.GET("events/:uuid/tickets", h.ListTickets)
		router.POST("events/:uuid/tickets", h.IssueTicket)
	}
}

type IssueBatchRequest struct {
	Type       model.CodeType `json:"type" binding:"required"`
	Quantity   int            `json:"quantity" binding:"required,min=1"`
	MaxUses    *int           `json:"max_uses"`
	ExpiresAt  *time.Time     `json:"expires_at"`
	PromoterID *int           `json:"promoter_id"`
}

type IssueTicketRequest struct {
	CodeID   *int   `json:"code_id"`
	FullName string `json:"full_name" binding:"required"`
	DNI      string `json:"dni"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ListCodesQuery struct {
	Type string `form:"type"`
}

func (h *CodeHandler) ListByEvent(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	var query ListCodesQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}
	var typeFilter *model.CodeType
	if query.Type != "" {
		t := model.CodeType(query.Type)
		if !t.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code type"})
			return
		}
		typeFilter = &t
	}
	codes, err := h.service.ListByEvent(c, eventID, typeFilter)
	if err != nil {
		h.handleError(c, err, "ListByEvent")
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *CodeHandler) IssueBatch(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	var req IssueBatchRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	codes, err := h.service.IssueBatch(c, eventID, service.IssueBatchParams{
		Type:       req.Type,
		Quantity:   req.Quantity,
		MaxUses:    req.MaxUses,
		ExpiresAt:  req.ExpiresAt,
		PromoterID: req.PromoterID,
	})
	if err != nil {
		h.handleError(c, err, "IssueBatch")
		return
	}
	c.JSON(http.StatusCreated, codes)
}

func (h *CodeHandler) ListTickets(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	tickets, err := h.service.ListTicketsByEvent(c, eventID)
	if err != nil {
		h.handleError(c, err, "ListTickets")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *CodeHandler) IssueTicket(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	var req IssueTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticket, err := h.service.IssueTicket(c, eventID, service.IssueTicketParams{
		CodeID:   req.CodeID,
		FullName: req.FullName,
		DNI:      req.DNI,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		h.handleError(c, err, "IssueTicket")
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *CodeHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrCodeNotFound):
		log.Warn("Code not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Code not found"})
	case errors.Is(err, apperrors.ErrEventClosed):
		log.Warn("Event already closed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event already closed"})
	case errors.Is(err, apperrors.ErrCodeCollision):
		log.Error("Code generation exhausted retries")
		c.JSON(http.StatusConflict, gin.H{"error": "Could not generate a unique code"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
