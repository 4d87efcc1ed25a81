package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"stenolearn-backend-go/internal/core"
	"stenolearn-backend-go/internal/middleware"
	"stenolearn-backend-go/internal/models"
)

// ProfileHandler handles the learner profile endpoints.
type ProfileHandler struct {
	profileService core.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(ps core.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: ps}
}

// sessionFromContext pulls the session the auth middleware stored.
func sessionFromContext(c *gin.Context) (*core.Session, bool) {
	raw, exists := c.Get(middleware.SessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := raw.(*core.Session)
	if !ok || sess == nil {
		return nil, false
	}
	return sess, true
}

// mapProfileError maps service sentinel errors to HTTP statuses.
func mapProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
	case errors.Is(err, core.ErrProfileExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "User profile already exists"})
	case errors.Is(err, core.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
	case errors.Is(err, core.ErrStoreUnavailable):
		log.Printf("ProfileHandler: store unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Profile store is temporarily unavailable"})
	case errors.Is(err, core.ErrInvalidUsageKind),
		errors.Is(err, core.ErrInvalidUsageAmount),
		errors.Is(err, core.ErrUnknownModule):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
	default:
		log.Printf("ProfileHandler: unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// GetCurrentProfile handles GET /api/v1/users/me.
func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	profile, err := h.profileService.Load(c.Request.Context(), sess)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PATCH /api/v1/users/me.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), sess, req)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateSubscription handles PUT /api/v1/users/me/subscription.
func (h *ProfileHandler) UpdateSubscription(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	var delta models.SubscriptionDelta
	if err := c.ShouldBindJSON(&delta); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	profile, err := h.profileService.UpdateSubscription(c.Request.Context(), sess, delta)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// TrackUsage handles POST /api/v1/users/me/usage.
func (h *ProfileHandler) TrackUsage(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	var req models.TrackUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	usage, err := h.profileService.TrackUsage(c.Request.Context(), sess, req.Kind, req.Amount)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// RecordProgress handles POST /api/v1/users/me/progress.
func (h *ProfileHandler) RecordProgress(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	var req models.RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	profile, err := h.profileService.RecordProgress(c.Request.Context(), sess, req)
	if err != nil {
		mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
