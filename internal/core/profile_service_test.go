package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stenolearn-backend-go/internal/content"
	"stenolearn-backend-go/internal/db"
	"stenolearn-backend-go/internal/models"
)

// -------- test fakes --------

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// failingRepo wraps a real repository and fails writes on demand.
type failingRepo struct {
	db.ProfileRepository
	failUpdates bool
	failCreates bool
}

func (r *failingRepo) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if r.failUpdates {
		return errors.New("simulated store outage")
	}
	return r.ProfileRepository.UpdateFields(ctx, uid, fields)
}

func (r *failingRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	if r.failCreates {
		return errors.New("simulated store outage")
	}
	return r.ProfileRepository.Create(ctx, profile)
}

func newTestService(t *testing.T) (ProfileService, db.ProfileRepository, *fakeClock) {
	t.Helper()
	repo := db.NewMemoryProfileRepository()
	clock := &fakeClock{now: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)}
	return NewProfileService(repo, nil, clock), repo, clock
}

// -------- tests --------

func TestCreateThenLoadDefaults(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")

	created, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, created.Subscription.Plan)
	assert.Equal(t, models.StatusActive, created.Subscription.Status)
	assert.Nil(t, created.Subscription.EndDate)
	assert.Equal(t, content.FirstModuleID(), created.Progress.CurrentModule)
	assert.Empty(t, created.Progress.CompletedModules)

	loaded, err := svc.Load(ctx, NewSession("u1", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", loaded.Email)
	assert.Equal(t, clock.now.Format("2006-01-02"), loaded.Usage.LastResetDate)
	assert.Zero(t, loaded.Usage.DailySpeedExercises)
	assert.Zero(t, loaded.Usage.DailyDictationMinutes)
}

func TestCreateTwiceFailsAndLeavesFirstProfile(t *testing.T) {
	svc, repo, clock := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, NewSession("u1", "a@x.com", "A"))
	require.NoError(t, err)

	clock.advance(time.Hour)
	_, err = svc.Create(ctx, NewSession("u1", "other@x.com", "B"))
	require.ErrorIs(t, err, ErrProfileExists)

	stored, err := repo.GetByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.Email, stored.Email)
	assert.Equal(t, first.DisplayName, stored.DisplayName)
	assert.True(t, first.CreatedAt.Equal(stored.CreatedAt))
}

func TestCreateStoreFailureLeavesNoCachedState(t *testing.T) {
	repo := &failingRepo{ProfileRepository: db.NewMemoryProfileRepository(), failCreates: true}
	svc := NewProfileService(repo, nil, &fakeClock{now: time.Now()})
	sess := NewSession("u1", "a@x.com", "A")

	_, err := svc.Create(context.Background(), sess)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, sess.profile)
}

func TestLoadUnknownUIDIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Load(context.Background(), NewSession("ghost", "", ""))
	require.ErrorIs(t, err, ErrProfileNotFound)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
}

func TestInitializeCreatesOnceThenLoads(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, created, err := svc.Initialize(ctx, NewSession("u1", "a@x.com", "A"))
	require.NoError(t, err)
	assert.True(t, created)

	// A session restore must not create a second profile.
	profile, created, err := svc.Initialize(ctx, NewSession("u1", "a@x.com", "A"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "a@x.com", profile.Email)
}

func TestTrackUsageAccumulatesWithinOneDay(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.TrackUsage(ctx, sess, models.UsageKindSpeedExercise, 3)
		require.NoError(t, err)
	}

	profile, err := svc.Load(ctx, NewSession("u1", "", ""))
	require.NoError(t, err)
	assert.Equal(t, 9, profile.Usage.DailySpeedExercises)
	assert.Equal(t, 0, profile.Usage.DailyDictationMinutes)
}

func TestTrackUsageDictationScenario(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	profile, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, profile.Subscription.Plan)
	assert.Equal(t, 0, profile.Usage.DailySpeedExercises)

	usage, err := svc.TrackUsage(ctx, sess, models.UsageKindDictation, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, usage.DailyDictationMinutes)

	usage, err = svc.TrackUsage(ctx, sess, models.UsageKindDictation, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, usage.DailyDictationMinutes)
	assert.Equal(t, 0, usage.DailySpeedExercises)
}

func TestTrackUsageResetsBothCountersOnNewDay(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)

	_, err = svc.TrackUsage(ctx, sess, models.UsageKindSpeedExercise, 4)
	require.NoError(t, err)
	_, err = svc.TrackUsage(ctx, sess, models.UsageKindDictation, 12)
	require.NoError(t, err)

	clock.advance(24 * time.Hour)

	usage, err := svc.TrackUsage(ctx, sess, models.UsageKindDictation, 5)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UTC().Format("2006-01-02"), usage.LastResetDate)
	assert.Equal(t, 5, usage.DailyDictationMinutes, "yesterday's minutes must be gone")
	assert.Equal(t, 0, usage.DailySpeedExercises, "both daily counters reset together")
}

func TestTrackUsageResetWithBackdatedStore(t *testing.T) {
	svc, repo, clock := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	_, err = svc.TrackUsage(ctx, sess, models.UsageKindSpeedExercise, 7)
	require.NoError(t, err)

	// Back-date the stored reset marker by one day, as if the profile had
	// last been touched yesterday.
	yesterday := clock.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	err = repo.UpdateFields(ctx, "u1", map[string]interface{}{
		"usage": models.Usage{
			LastResetDate:         yesterday,
			DailySpeedExercises:   7,
			DailyDictationMinutes: 3,
		},
	})
	require.NoError(t, err)

	// A fresh session observes the stale date and rolls over before
	// applying its own increment.
	usage, err := svc.TrackUsage(ctx, NewSession("u1", "", ""), models.UsageKindDictation, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, usage.DailyDictationMinutes)
	assert.Equal(t, 0, usage.DailySpeedExercises)
}

func TestTrackUsageValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)

	_, err = svc.TrackUsage(ctx, sess, "swimming", 1)
	assert.ErrorIs(t, err, ErrInvalidUsageKind)

	_, err = svc.TrackUsage(ctx, sess, models.UsageKindDictation, 0)
	assert.ErrorIs(t, err, ErrInvalidUsageAmount)

	_, err = svc.TrackUsage(ctx, nil, models.UsageKindDictation, 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestTrackUsagePersistFailureKeepsCacheConsistent(t *testing.T) {
	inner := db.NewMemoryProfileRepository()
	repo := &failingRepo{ProfileRepository: inner}
	clock := &fakeClock{now: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)}
	svc := NewProfileService(repo, nil, clock)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	_, err = svc.TrackUsage(ctx, sess, models.UsageKindSpeedExercise, 2)
	require.NoError(t, err)

	repo.failUpdates = true
	_, err = svc.TrackUsage(ctx, sess, models.UsageKindSpeedExercise, 2)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	// The cached counters must still match the store: the failed write was
	// never committed to the cache.
	stored, err := inner.GetByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, stored.Usage, sess.profile.Usage)
	assert.Equal(t, 2, sess.profile.Usage.DailySpeedExercises)
}

func TestUpdateSubscriptionShallowMerge(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	created, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	startDate := created.Subscription.StartDate

	clock.advance(time.Hour)
	canceled := models.StatusCanceled
	profile, err := svc.UpdateSubscription(ctx, sess, models.SubscriptionDelta{Status: &canceled})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCanceled, profile.Subscription.Status)
	assert.Equal(t, models.PlanFree, profile.Subscription.Plan, "omitted plan must be retained")
	assert.True(t, startDate.Equal(profile.Subscription.StartDate), "omitted startDate must be retained")
	assert.True(t, profile.Subscription.UpdatedAt.After(startDate))
}

func TestUpdateSubscriptionAcceptsAnyStatusValue(t *testing.T) {
	// Status transitions are not validated here; past_due back to active
	// is a legal round trip driven by the billing side.
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)

	for _, status := range []string{models.StatusPastDue, models.StatusActive, models.StatusCanceled, models.StatusActive} {
		s := status
		profile, err := svc.UpdateSubscription(ctx, sess, models.SubscriptionDelta{Status: &s})
		require.NoError(t, err)
		assert.Equal(t, status, profile.Subscription.Status)
	}
}

func TestUpdateProfileTouchesOnlyNamedFields(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	_, err = svc.TrackUsage(ctx, sess, models.UsageKindDictation, 6)
	require.NoError(t, err)

	before, err := repo.GetByUID(ctx, "u1")
	require.NoError(t, err)

	name := "X"
	profile, err := svc.UpdateProfile(ctx, sess, models.UpdateProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "X", profile.DisplayName)

	after, err := repo.GetByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "X", after.DisplayName)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Subscription, after.Subscription)
	assert.Equal(t, before.Progress, after.Progress)
	assert.Equal(t, before.Usage, after.Usage)
}

func TestUpdateProfileEmptyRequestIsNoop(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)

	before, err := repo.GetByUID(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, sess, models.UpdateProfileRequest{})
	require.NoError(t, err)

	after, err := repo.GetByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApplySubscriptionEventBypassesSession(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, NewSession("u1", "a@x.com", "A"))
	require.NoError(t, err)

	pastDue := models.StatusPastDue
	plan := models.PlanPro
	err = svc.ApplySubscriptionEvent(ctx, "u1", models.SubscriptionDelta{Status: &pastDue, Plan: &plan})
	require.NoError(t, err)

	stored, err := repo.GetByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPastDue, stored.Subscription.Status)
	assert.Equal(t, models.PlanPro, stored.Subscription.Plan)

	err = svc.ApplySubscriptionEvent(ctx, "ghost", models.SubscriptionDelta{Status: &pastDue})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRecordProgressAccumulates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	_, err := svc.Create(ctx, sess)
	require.NoError(t, err)

	n := 4
	speed := 60.0
	accuracy := 90.0
	profile, err := svc.RecordProgress(ctx, sess, models.RecordProgressRequest{
		SpeedExercises: &n,
		Speed:          &speed,
		Accuracy:       &accuracy,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, profile.Progress.TotalSpeedExercises)
	assert.InDelta(t, 60.0, profile.Progress.AverageSpeed, 0.001)

	n2 := 4
	speed2 := 80.0
	profile, err = svc.RecordProgress(ctx, sess, models.RecordProgressRequest{
		SpeedExercises: &n2,
		Speed:          &speed2,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, profile.Progress.TotalSpeedExercises)
	assert.InDelta(t, 70.0, profile.Progress.AverageSpeed, 0.001)

	minutes := 15
	profile, err = svc.RecordProgress(ctx, sess, models.RecordProgressRequest{DictationMinutes: &minutes})
	require.NoError(t, err)
	assert.Equal(t, 15, profile.Progress.TotalDictationMinutes)
}

func TestRecordProgressModuleCompletionAdvances(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sess := NewSession("u1", "a@x.com", "A")
	created, err := svc.Create(ctx, sess)
	require.NoError(t, err)
	first := created.Progress.CurrentModule

	completed := first
	profile, err := svc.RecordProgress(ctx, sess, models.RecordProgressRequest{CompletedModule: &completed})
	require.NoError(t, err)
	assert.Contains(t, profile.Progress.CompletedModules, first)
	next, ok := content.NextModuleID(first)
	require.True(t, ok)
	assert.Equal(t, next, profile.Progress.CurrentModule)

	// Completing the same module again must not duplicate it.
	profile, err = svc.RecordProgress(ctx, sess, models.RecordProgressRequest{CompletedModule: &completed})
	require.NoError(t, err)
	assert.Len(t, profile.Progress.CompletedModules, 1)

	bogus := "Z"
	_, err = svc.RecordProgress(ctx, sess, models.RecordProgressRequest{CompletedModule: &bogus})
	assert.ErrorIs(t, err, ErrUnknownModule)
}

func TestMutationsRequireSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.Load(ctx, &Session{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.UpdateProfile(ctx, nil, models.UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.UpdateSubscription(ctx, nil, models.SubscriptionDelta{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = svc.RecordProgress(ctx, nil, models.RecordProgressRequest{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
