package handler

import (
	"errors"
	"net/http"
	"ticket-backoffice/internal/middleware"
	"ticket-backoffice/internal/model"
	"ticket-backoffice/internal/service"
	apperrors "ticket-backoffice/pkg/app_errors"
	"ticket-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScanHandler struct {
	service service.ScanService
}

func NewScanHandler(service service.ScanService) *ScanHandler {
	return &ScanHandler{service: service}
}

func (h *ScanHandler) RegisterRoutes(r gin.IRouter) {
	router := r.Group("/api")
	{
		router.POST("scan", h.Scan)
		router.POST("scan/confirm", h.Confirm)
	}
}

// Scan is the preview endpoint: it classifies and audits but consumes
// nothing, so the same code can be previewed any number of times. The
// classification is a query, so business rejections still answer 200
// with the result in the body.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req model.ScanRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	staffID := staffIDPtr(c)

	resp, err := h.service.Preview(c, req.EventID, req.Code, staffID)
	if err != nil {
		h.handleScanError(c, err, "Scan")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Confirm is the command side: it consumes the code or ticket at most
// once and answers non-2xx on rejection.
func (h *ScanHandler) Confirm(c *gin.Context) {
	var req model.ConfirmRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	staffID := staffIDPtr(c)

	resp, err := h.service.Confirm(c, req, staffID)
	if err != nil {
		h.handleScanError(c, err, "Confirm")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func staffIDPtr(c *gin.Context) *int {
	if id, ok := middleware.StaffIDFromContext(c); ok {
		return &id
	}
	return nil
}

func (h *ScanHandler) handleScanError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
	case errors.Is(err, apperrors.ErrCodeNotFound):
		log.Warn("Code not found")
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Code not found", "result": model.ScanResultNotFound})
	case errors.Is(err, apperrors.ErrTicketNotFound):
		log.Warn("Ticket not found")
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Ticket not found", "result": model.ScanResultNotFound})
	case errors.Is(err, apperrors.ErrTicketUsed):
		log.Warn("Ticket already used")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Ticket already used", "result": model.ScanResultDuplicate})
	case errors.Is(err, apperrors.ErrCodeInactive):
		log.Warn("Code inactive")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Code is inactive", "result": model.ScanResultInactive})
	case errors.Is(err, apperrors.ErrCodeExpired):
		log.Warn("Code expired")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Code expired", "result": model.ScanResultExpired})
	case errors.Is(err, apperrors.ErrEntryCutoff):
		log.Warn("Entry window closed")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Entry window has closed", "result": model.ScanResultExpired, "reason": model.ReasonEntryCutoff})
	case errors.Is(err, apperrors.ErrCodeExhausted):
		log.Warn("Code exhausted")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Code has no uses left", "result": model.ScanResultExhausted})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "code_id or ticket_id is required"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}
