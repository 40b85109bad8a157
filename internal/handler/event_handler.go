package handler

import (
	"errors"
	"net/http"
	"ticket-backoffice/internal/middleware"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/service"
	apperrors "ticket-backoffice/pkg/app_errors"
	"ticket-backoffice/pkg/logger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r gin.IRouter) {
	router := r.Group("/api")
	{
		router.GET("events", h.List)
		router.GET("events/:uuid", h.GetByEventID)
		router.POST("events", h.Create)
		router.PUT("events/:uuid", h.UpdateByEventID)
		router.POST("events/:uuid/close", h.Close)
	}
}

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	OrganizerID int       `json:"organizer_id" binding:"required"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EntryLimit  *string   `json:"entry_limit"`
	Capacity    int       `json:"capacity"`
}

type UpdateEventRequest struct {
	Name       *string    `json:"name"`
	StartsAt   *time.Time `json:"starts_at"`
	EntryLimit *string    `json:"entry_limit"`
	Capacity   *int       `json:"capacity"`
}

type CloseEventRequest struct {
	Reason *string `json:"reason"`
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event := &model.Event{
		OrganizerID: req.OrganizerID,
		Name:        req.Name,
		StartsAt:    req.StartsAt,
		EntryLimit:  req.EntryLimit,
		Capacity:    req.Capacity,
	}
	created, err := h.service.Create(c, event)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) UpdateByEventID(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	if req.Name == nil && req.StartsAt == nil && req.EntryLimit == nil && req.Capacity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}
	params := model.UpdateEventParams{
		Name:       req.Name,
		StartsAt:   req.StartsAt,
		EntryLimit: req.EntryLimit,
		Capacity:   req.Capacity,
	}
	updated, err := h.service.UpdateByEventID(c, eventID, params)
	if err != nil {
		h.handleError(c, err, "UpdateByEventID")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Close(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	var req CloseEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	staffID, ok := middleware.StaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing staff identity"})
		return
	}

	result, err := h.service.Close(c, eventID, staffID, req.Reason)
	if err != nil {
		h.handleError(c, err, "Close")
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseEventUUID(c *gin.Context) (uuid.UUID, error) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return uuid.Nil, err
	}
	return eventID, nil
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrEventClosed):
		log.Warn("Event already closed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event already closed"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
