package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stenolearn-backend-go/internal/db"
	"stenolearn-backend-go/internal/models"
)

// activityService implements ActivityService.
type activityService struct {
	activityRepo db.ActivityRepository
}

// NewActivityService creates an ActivityService backed by the given
// repository.
func NewActivityService(activityRepo db.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) Record(ctx context.Context, userID, action string, details map[string]interface{}) error {
	if s.activityRepo == nil {
		return fmt.Errorf("ActivityRepository not initialized in ActivityService")
	}

	entry := models.ActivityEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record activity entry: %w", err)
	}
	return nil
}
