package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/services"
)

type AlertHandler struct {
	service services.AlertService
}

func NewAlertHandler(service services.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

// List returns active alerts, optionally narrowed to one tab. Tabs are
// views over the same rows, not partitions.
func (h *AlertHandler) List(c *gin.Context) {
	tab := strings.TrimSpace(c.Query("tab"))
	switch tab {
	case "", services.AlertTabDeadlines, services.AlertTabReviews, services.AlertTabUpdates:
	default:
		RespondBadRequest(c, "unknown alert tab")
		return
	}
	views, err := h.service.ListActive(c.Request.Context(), tab, time.Now())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	var req struct {
		IsRead *bool `json:"is_read"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	isRead := true
	if req.IsRead != nil {
		isRead = *req.IsRead
	}
	alert, err := h.service.MarkAsRead(c.Request.Context(), id, isRead)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) Dismiss(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	alert, err := h.service.Dismiss(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}
