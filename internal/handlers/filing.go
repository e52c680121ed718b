package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/services"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type FilingHandler struct {
	service services.FilingService
}

func NewFilingHandler(service services.FilingService) *FilingHandler {
	return &FilingHandler{service: service}
}

func (h *FilingHandler) Create(c *gin.Context) {
	var input types.Filing
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

func (h *FilingHandler) Get(c *gin.Context) {
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

func (h *FilingHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *FilingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	var input types.Filing
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

func (h *FilingHandler) Delete(c *gin.Context) {
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
