package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ipdesk-backend/internal/services"
)

const maxAvatarUploadBytes = 5 << 20

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uh *UserHandler) UploadAvatar(c *gin.Context) {
	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		RespondBadRequest(c, "avatar file is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxAvatarUploadBytes+1))
	if err != nil {
		RespondBadRequest(c, "could not read avatar file")
		return
	}
	if len(raw) > maxAvatarUploadBytes {
		RespondBadRequest(c, "avatar file too large")
		return
	}

	user, err := uh.userService.UpdateAvatarFromImage(c.Request.Context(), raw)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
