package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ipdesk-backend/internal/logger"
	"github.com/yungbote/ipdesk-backend/internal/services"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type ActivityHandler struct {
	log      *logger.Logger
	activity services.ActivityService
	resolver services.EntityResolver
	alerts   services.AlertService
}

func NewActivityHandler(log *logger.Logger, activity services.ActivityService, resolver services.EntityResolver, alerts services.AlertService) *ActivityHandler {
	return &ActivityHandler{
		log:      log.With("handler", "ActivityHandler"),
		activity: activity,
		resolver: resolver,
		alerts:   alerts,
	}
}

// Timeline returns the entity's activity, newest first. ?action= filters
// to one action; ?grouped=1 buckets entries by calendar day.
func (h *ActivityHandler) Timeline(c *gin.Context) {
	ref, ok := parseEntityRef(c.Param("entityType"), c.Param("entityId"))
	if !ok {
		RespondBadRequest(c, "invalid entity reference")
		return
	}

	entries, err := h.activity.Timeline(c.Request.Context(), ref)
	if err != nil {
		RespondError(c, err)
		return
	}

	if action := strings.TrimSpace(c.Query("action")); action != "" {
		if !types.IsValidActivityAction(types.ActivityAction(action)) {
			RespondBadRequest(c, "unknown activity action")
			return
		}
		entries = services.FilterByAction(entries, types.ActivityAction(action))
	}

	if c.Query("grouped") == "1" {
		c.JSON(http.StatusOK, services.GroupTimeline(entries, time.Now()))
		return
	}
	c.JSON(http.StatusOK, entries)
}

// AddNote appends a note or comment to the entity's timeline. A comment
// carrying reply_to also raises a comment_reply alert for the thread.
func (h *ActivityHandler) AddNote(c *gin.Context) {
	ref, ok := parseEntityRef(c.Param("entityType"), c.Param("entityId"))
	if !ok {
		RespondBadRequest(c, "invalid entity reference")
		return
	}

	var req struct {
		Action      string `json:"action"`
		Description string `json:"description"`
		ReplyTo     string `json:"reply_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	action := types.ActivityAction(req.Action)
	if action == "" {
		action = types.ActivityActionNoteAdded
	}
	if action != types.ActivityActionNoteAdded && action != types.ActivityActionCommentAdded {
		RespondBadRequest(c, "action must be note_added or comment_added")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		RespondBadRequest(c, "description is required")
		return
	}

	ctx := c.Request.Context()
	resolved, err := h.resolver.Resolve(ctx, nil, ref)
	if err != nil {
		RespondError(c, err)
		return
	}

	entry, err := h.activity.Record(ctx, nil, resolved, action, strings.TrimSpace(req.Description), nil)
	if err != nil {
		RespondError(c, err)
		return
	}

	if action == types.ActivityActionCommentAdded && strings.TrimSpace(req.ReplyTo) != "" {
		title := fmt.Sprintf("New reply on %s", resolved.DisplayName)
		if _, aErr := h.alerts.Create(ctx, nil, types.AlertTypeCommentReply, title, strings.TrimSpace(req.Description), &resolved.Type, &resolved.ID, nil); aErr != nil {
			h.log.Warn("Failed to create comment_reply alert", "entityID", resolved.ID, "error", aErr)
		}
	}
	c.JSON(http.StatusCreated, entry)
}
