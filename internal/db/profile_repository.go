package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"stenolearn-backend-go/internal/models"
)

const usersCollection = "users"

// firestoreProfileRepository implements ProfileRepository using Firestore.
// The Firebase Auth UID is used as the document ID.
type firestoreProfileRepository struct {
	client *firestore.Client
}

// NewFirestoreProfileRepository creates a Firestore-backed ProfileRepository.
func NewFirestoreProfileRepository(client *firestore.Client) ProfileRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ProfileRepository.")
	}
	return &firestoreProfileRepository{client: client}
}

// Create adds a new profile document. It fails with ErrAlreadyExists when a
// document is already bound to the UID, so a second signup for the same
// identity never overwrites the first.
func (r *firestoreProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile.UID == "" {
		return errors.New("profile UID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(profile.UID).Create(ctx, profile)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("profile for UID %q: %w", profile.UID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create profile for UID %q: %w", profile.UID, err)
	}
	return nil
}

// GetByUID retrieves a profile document by the Firebase Auth UID.
func (r *firestoreProfileRepository) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for GetByUID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("profile for UID %q: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile for UID %q: %w", uid, err)
	}

	var profile models.UserProfile
	if err := docSnap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile for UID %q: %w", uid, err)
	}
	profile.UID = docSnap.Ref.ID
	return &profile, nil
}

// UpdateFields replaces the named top-level fields of the profile document.
// Firestore's field update replaces the value wholly, which gives the
// shallow-merge contract of ProfileRepository: a supplied sub-object
// replaces the stored one, omitted fields are untouched.
func (r *firestoreProfileRepository) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if uid == "" {
		return errors.New("uid cannot be empty for UpdateFields operation")
	}
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := r.client.Collection(usersCollection).Doc(uid).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("profile for UID %q: %w", uid, ErrNotFound)
		}
		return fmt.Errorf("failed to update profile for UID %q: %w", uid, err)
	}
	return nil
}
