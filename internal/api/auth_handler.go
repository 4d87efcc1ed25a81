package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stenolearn-backend-go/internal/core"
)

// AuthHandler handles the post-authentication profile bootstrap.
type AuthHandler struct {
	profileService core.ProfileService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(ps core.ProfileService) *AuthHandler {
	return &AuthHandler{profileService: ps}
}

// InitializeProfile handles POST /api/v1/users/initialize. The client
// calls it after a Firebase signup or login; the profile is created only
// when absent, so session restores never touch an existing document.
func (h *AuthHandler) InitializeProfile(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	profile, created, err := h.profileService.Initialize(c.Request.Context(), sess)
	if err != nil {
		mapProfileError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, profile)
		return
	}
	c.JSON(http.StatusOK, profile)
}
