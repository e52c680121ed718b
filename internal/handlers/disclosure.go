package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/services"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type DisclosureHandler struct {
	service services.DisclosureService
}

func NewDisclosureHandler(service services.DisclosureService) *DisclosureHandler {
	return &DisclosureHandler{service: service}
}

func (h *DisclosureHandler) Create(c *gin.Context) {
	var input types.Disclosure
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	row, err := h.service.Create(c.Request.Context(), &input)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *DisclosureHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	row, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *DisclosureHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *DisclosureHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	var input types.Disclosure
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	row, err := h.service.Update(c.Request.Context(), id, &input)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *DisclosureHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
