package handler

import (
	"errors"
	"net/http"
	"ticket-backoffice/internal/service"
	apperrors "ticket-backoffice/pkg/app_errors"
	"ticket-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(r gin.IRouter) {
	router := r.Group("/api")
	{
		router.GET("events/:uuid/attendance", h.Attendance)
		router.GET("events/:uuid/scans/export", h.ExportScans)
	}
}

func (h *ReportHandler) Attendance(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}
	report, err := h.service.Attendance(c, eventID)
	if err != nil {
		h.handleError(c, err, "Attendance")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ExportScans(c *gin.Context) {
	eventID, err := parseEventUUID(c)
	if err != nil {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="scans.csv"`)

	if err := h.service.ExportScans(c, eventID, c.Writer); err != nil {
		// headers may already be out; log instead of rewriting the body
		logger.WithComponent("handler").Error("scan export failed",
			zap.String("operation", "ExportScans"), zap.Error(err))
		if !c.Writer.Written() {
			h.handleError(c, err, "ExportScans")
		}
	}
}

func (h *ReportHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
