package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/services"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type LinkHandler struct {
	service services.LinkService
}

func NewLinkHandler(service services.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

func parseEntityRef(entityType, entityID string) (services.EntityRef, bool) {
	if !types.IsValidEntityType(types.EntityType(entityType)) {
		return services.EntityRef{}, false
	}
	id, err := uuid.Parse(entityID)
	if err != nil {
		return services.EntityRef{}, false
	}
	return services.EntityRef{Type: types.EntityType(entityType), ID: id}, true
}

func (h *LinkHandler) Create(c *gin.Context) {
	var req struct {
		SourceType string `json:"source_type"`
		SourceID   string `json:"source_id"`
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	source, ok := parseEntityRef(req.SourceType, req.SourceID)
	if !ok {
		RespondBadRequest(c, "invalid source entity reference")
		return
	}
	target, ok := parseEntityRef(req.TargetType, req.TargetID)
	if !ok {
		RespondBadRequest(c, "invalid target entity reference")
		return
	}
	link, err := h.service.LinkEntities(c.Request.Context(), source, target)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *LinkHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	if err := h.service.UnlinkEntities(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *LinkHandler) ListForEntity(c *gin.Context) {
	ref, ok := parseEntityRef(c.Param("entityType"), c.Param("entityId"))
	if !ok {
		RespondBadRequest(c, "invalid entity reference")
		return
	}
	linked, err := h.service.GetLinkedEntities(c.Request.Context(), ref)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, linked)
}
