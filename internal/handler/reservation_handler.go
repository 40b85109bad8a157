package handler

import (
	"errors"
	"net/http"
	"strconv"
	"ticket-backoffice/internal/service"
	apperrors "ticket-backoffice/pkg/app_errors"
	"ticket-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service service.ReservationService
}

func NewReservationHandler(service service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) RegisterRoutes(r gin.IRouter) {
	router := r.Group("/api")
	{
		router.GET("events/:uuid/tables", h.ListTables)
		router.POST("events/:uuid/tables", h.CreateTable)
		router.GET("events/:uuid/reservations", h.ListReservations)
		router.POST("events/:uuid/reservations", h.Reserve)
		router.PUT("reservations/:id/confirm", h.Confirm)
		router.PUT("reservations/:id/archive", h.Archive)
	}
}

type CreateTableRequest struct {
	Name     string          `json:"name" binding:"required"`
	Capacity int             `json:"capacity" binding:"required,min=1"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

type ReserveRequest struct {
	TableID       int    `json:"table_id" binding:"required"`
	PurchaserName string `json:"purchaser_name" binding:"required"`
	PurchaserDNI  string `json:"purchaser_dni"`
	IssueCode     bool   `json:"issue_code"`
}

func (h *ReservationHandler) ListTables(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	tables, err := h.service.ListTables(c, eventID)
	if err != nil {
		h.handleError(c, err, "ListTables")
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *ReservationHandler) CreateTable(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	var req CreateTableRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	table, err := h.service.CreateTable(c, eventID, req.Name, req.Capacity, req.Price)
	if err != nil {
		h.handleError(c, err, "CreateTable")
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *ReservationHandler) ListReservations(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	reservations, err := h.service.ListByEvent(c, eventID)
	if err != nil {
		h.handleError(c, err, "ListReservations")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	var req ReserveRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	reservation, err := h.service.Reserve(c, eventID, service.ReserveParams{
		TableID:       req.TableID,
		PurchaserName: req.PurchaserName,
		PurchaserDNI:  req.PurchaserDNI,
		IssueCode:     req.IssueCode,
	})
	if err != nil {
		h.handleError(c, err, "Reserve")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}
	reservation, err := h.service.Confirm(c, id)
	if err != nil {
		h.handleError(c, err, "Confirm")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}
	reservation, err := h.service.Archive(c, id)
	if err != nil {
		h.handleError(c, err, "Archive")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrTableNotFound):
		log.Warn("Table not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
	case errors.Is(err, apperrors.ErrReservationNotFound):
		log.Warn("Reservation not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	case errors.Is(err, apperrors.ErrEventClosed):
		log.Warn("Event already closed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event already closed"})
	case errors.Is(err, apperrors.ErrInvalidStatus):
		log.Warn("Invalid status transition")
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid status transition"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
