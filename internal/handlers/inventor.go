package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/ipdesk-backend/internal/services"
	"github.com/yungbote/ipdesk-backend/internal/types"
)

type InventorHandler struct {
	service services.InventorService
}

func NewInventorHandler(service services.InventorService) *InventorHandler {
	return &InventorHandler{service: service}
}

func (h *InventorHandler) Create(c *gin.Context) {
	var input types.Inventor
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

func (h *InventorHandler) Get(c *gin.Context) {
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

func (h *InventorHandler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid id")
		return
	}
	var input types.Inventor
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

func (h *InventorHandler) Delete(c *gin.Context) {
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
