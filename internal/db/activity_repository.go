package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"cloud.google.com/go/firestore"

	"stenolearn-backend-go/internal/models"
)

const activityCollection = "activity"

// firestoreActivityRepository implements ActivityRepository using Firestore.
type firestoreActivityRepository struct {
	client *firestore.Client
}

// NewFirestoreActivityRepository creates a Firestore-backed ActivityRepository.
func NewFirestoreActivityRepository(client *firestore.Client) ActivityRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ActivityRepository.")
	}
	return &firestoreActivityRepository{client: client}
}

func (r *firestoreActivityRepository) Create(ctx context.Context, entry models.ActivityEntry) error {
	if entry.ID == "" {
		return errors.New("activity entry ID cannot be empty")
	}
	_, err := r.client.Collection(activityCollection).Doc(entry.ID).Create(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create activity entry %q: %w", entry.ID, err)
	}
	return nil
}

// MemoryActivityRepository keeps activity entries in a slice. Used in local
// mode and by tests, which can inspect Entries.
type MemoryActivityRepository struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

// NewMemoryActivityRepository creates an empty in-memory ActivityRepository.
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{}
}

func (r *MemoryActivityRepository) Create(ctx context.Context, entry models.ActivityEntry) error {
	if entry.ID == "" {
		return errors.New("activity entry ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (r *MemoryActivityRepository) Entries() []models.ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ActivityEntry(nil), r.entries...)
}
