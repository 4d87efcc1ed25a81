package db

import (
	"context"
	"errors"

	"stenolearn-backend-go/internal/models"
)

// ErrNotFound is returned when no document exists for the given key.
var ErrNotFound = errors.New("document not found")

// ErrAlreadyExists is returned by Create when a document is already bound
// to the key.
var ErrAlreadyExists = errors.New("document already exists")

// ProfileRepository is the document-store binding for user profiles.
//
// UpdateFields performs a shallow merge at the top level only: each entry
// of fields replaces the stored field of the same name wholly, so callers
// updating a sub-object (subscription, usage, progress) must supply the
// entire sub-object to avoid losing nested fields.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByUID(ctx context.Context, uid string) (*models.UserProfile, error)
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
}

// ActivityRepository stores append-only activity log entries.
type ActivityRepository interface {
	Create(ctx context.Context, entry models.ActivityEntry) error
}
