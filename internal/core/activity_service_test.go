package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stenolearn-backend-go/internal/db"
	"stenolearn-backend-go/internal/models"
)

func TestActivityServiceRecord(t *testing.T) {
	repo := db.NewMemoryActivityRepository()
	svc := NewActivityService(repo)

	err := svc.Record(context.Background(), "u1", models.ActionUsageTrack,
		map[string]interface{}{"kind": models.UsageKindDictation, "amount": 5})
	require.NoError(t, err)

	entries := repo.Entries()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, models.ActionUsageTrack, entries[0].Action)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].Timestamp, time.Minute)
}

func TestProfileServiceRecordsActivity(t *testing.T) {
	activityRepo := db.NewMemoryActivityRepository()
	clock := &fakeClock{now: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)}
	svc := NewProfileService(db.NewMemoryProfileRepository(), NewActivityService(activityRepo), clock)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")

	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	_, err = svc.TrackUsage(ctx, sess, models.UsageKindSpeedExercise, 2)
	require.NoError(t, err)

	entries := activityRepo.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionProfileCreate, entries[0].Action)
	assert.Equal(t, models.ActionUsageTrack, entries[1].Action)
	assert.Equal(t, "u1", entries[1].UserID)
}
