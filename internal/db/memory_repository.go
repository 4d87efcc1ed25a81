package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stenolearn-backend-go/internal/models"
)

// memoryProfileRepository implements ProfileRepository in process memory.
// It backs local mode (guest accounts without a Firebase project) and the
// tests, and keeps the same error and shallow-merge contract as the
// Firestore implementation.
type memoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*models.UserProfile
}

// NewMemoryProfileRepository creates an empty in-memory ProfileRepository.
func NewMemoryProfileRepository() ProfileRepository {
	return &memoryProfileRepository{profiles: make(map[string]*models.UserProfile)}
}

func (r *memoryProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile.UID == "" {
		return errors.New("profile UID cannot be empty for Create operation")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UID]; ok {
		return fmt.Errorf("profile for UID %q: %w", profile.UID, ErrAlreadyExists)
	}
	r.profiles[profile.UID] = profile.Clone()
	return nil
}

func (r *memoryProfileRepository) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for GetByUID operation")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[uid]
	if !ok {
		return nil, fmt.Errorf("profile for UID %q: %w", uid, ErrNotFound)
	}
	return profile.Clone(), nil
}

func (r *memoryProfileRepository) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if uid == "" {
		return errors.New("uid cannot be empty for UpdateFields operation")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[uid]
	if !ok {
		return fmt.Errorf("profile for UID %q: %w", uid, ErrNotFound)
	}

	for path, value := range fields {
		switch path {
		case "email":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %q: expected string, got %T", path, value)
			}
			profile.Email = s
		case "displayName":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %q: expected string, got %T", path, value)
			}
			profile.DisplayName = s
		case "subscription":
			sub, ok := value.(models.Subscription)
			if !ok {
				return fmt.Errorf("field %q: expected models.Subscription, got %T", path, value)
			}
			profile.Subscription = sub
		case "progress":
			prog, ok := value.(models.Progress)
			if !ok {
				return fmt.Errorf("field %q: expected models.Progress, got %T", path, value)
			}
			profile.Progress = prog
		case "usage":
			usage, ok := value.(models.Usage)
			if !ok {
				return fmt.Errorf("field %q: expected models.Usage, got %T", path, value)
			}
			profile.Usage = usage
		case "updatedAt":
			t, ok := value.(time.Time)
			if !ok {
				return fmt.Errorf("field %q: expected time.Time, got %T", path, value)
			}
			profile.UpdatedAt = t
		default:
			return fmt.Errorf("field %q is not a known top-level profile field", path)
		}
	}
	return nil
}
