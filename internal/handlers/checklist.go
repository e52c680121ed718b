package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/services"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type ChecklistHandler struct {
	service services.ChecklistService
}

func NewChecklistHandler(service services.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{service: service}
}

type checklistItemView struct {
	*types.ChecklistItem
	DueStatus string `json:"due_status,omitempty"`
}

func checklistResponse(items []*types.ChecklistItem, now time.Time) gin.H {
	views := make([]checklistItemView, 0, len(items))
	for _, item := range items {
		views = append(views, checklistItemView{
			ChecklistItem: item,
			DueStatus:     services.DueDateStatus(item.DueDate, now),
		})
	}
	return gin.H{
		"items":           views,
		"completion_rate": services.CompletionRate(items),
	}
}

func (h *ChecklistHandler) List(c *gin.Context) {
	ref, ok := parseEntityRef(c.Param("entityType"), c.Param("entityId"))
	if !ok {
		RespondBadRequest(c, "invalid entity reference")
		return
	}
	items, err := h.service.ListItems(c.Request.Context(), ref)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklistResponse(items, time.Now()))
}

func (h *ChecklistHandler) Create(c *gin.Context) {
	ref, ok := parseEntityRef(c.Param("entityType"), c.Param("entityId"))
	if !ok {
		RespondBadRequest(c, "invalid entity reference")
		return
	}
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	item, err := h.service.CreateItem(c.Request.Context(), ref, req.Title, req.Description, req.DueDate)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ChecklistHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	var patch services.ChecklistUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	item, err := h.service.UpdateItem(c.Request.Context(), id, patch)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ChecklistHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ChecklistHandler) ApplyTemplate(c *gin.Context) {
	ref, ok := parseEntityRef(c.Param("entityType"), c.Param("entityId"))
	if !ok {
		RespondBadRequest(c, "invalid entity reference")
		return
	}
	items, err := h.service.ApplyTemplate(c.Request.Context(), ref)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checklistResponse(items, time.Now()))
}
