package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhive/internal/service"
)

// ProfileHandler mantiene dependencias para endpoints de perfil.
type ProfileHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewProfileHandler(logger *zap.Logger, userServ *service.UserService) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// Get maneja GET /profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	user, err := h.userServ.Profile(c.Request.Context(), principalID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SetAvatar maneja PUT /profile/avatar. El cuerpo es la imagen cruda.
func (h *ProfileHandler) SetAvatar(c *gin.Context) {
	principalID, ok := requirePrincipal(c)
	if !ok {
		return
	}

	image, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.userServ.SetAvatar(c.Request.Context(), principalID, image); err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty avatar image"})
		case errors.Is(err, service.ErrAvatarTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid picture size, must be less than 4MB"})
		default:
			respondError(c, h.logger, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "avatar updated"})
}
