package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ipdesk-backend/internal/apierr"
)

// RespondError maps service failures onto the shared error envelope.
// Unclassified errors surface as storage errors so callers can retry.
func RespondError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": "internal", "message": "unknown error"}})
		return
	}
	c.JSON(ae.Status, gin.H{"error": gin.H{"code": ae.Code, "message": ae.Error()}})
}

func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": apierr.CodeValidation, "message": message}})
}
