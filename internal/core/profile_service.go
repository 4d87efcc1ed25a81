package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stenolearn-backend-go/internal/content"
	"stenolearn-backend-go/internal/db"
	"stenolearn-backend-go/internal/models"
)

// profileService implements ProfileService over a ProfileRepository.
//
// Known limitation, kept on purpose: TrackUsage and the subscription
// updates are read-modify-write over the whole sub-object with no version
// check, so two processes writing the same UID concurrently are
// last-writer-wins and an increment can be lost. For a single learner per
// account this is accepted rather than hidden behind locking.
type profileService struct {
	profileRepo db.ProfileRepository
	activity    ActivityService
	clock       Clock
}

// NewProfileService creates a ProfileService. activity may be nil when no
// activity log is wired; a nil clock falls back to the system clock.
func NewProfileService(profileRepo db.ProfileRepository, activity ActivityService, clock Clock) ProfileService {
	if clock == nil {
		clock = SystemClock()
	}
	return &profileService{
		profileRepo: profileRepo,
		activity:    activity,
		clock:       clock,
	}
}

func requireSession(sess *Session) error {
	if sess == nil || sess.UID == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// record appends to the activity log. The log is advisory: a failed write
// never fails the operation that triggered it.
func (s *profileService) record(ctx context.Context, uid, action string, details map[string]interface{}) {
	if s.activity == nil {
		return
	}
	_ = s.activity.Record(ctx, uid, action, details)
}

// persist writes the named top-level fields and maps store errors to the
// service's sentinel kinds.
func (s *profileService) persist(ctx context.Context, uid string, fields map[string]interface{}) error {
	if err := s.profileRepo.UpdateFields(ctx, uid, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: uid %q", ErrProfileNotFound, uid)
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *profileService) Create(ctx context.Context, sess *Session) (*models.UserProfile, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	profile := &models.UserProfile{
		UID:         sess.UID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Subscription: models.Subscription{
			Plan:      models.PlanFree,
			Status:    models.StatusActive,
			StartDate: now,
			EndDate:   nil,
			UpdatedAt: now,
		},
		Progress: models.Progress{
			CurrentModule:    content.FirstModuleID(),
			CompletedModules: []string{},
		},
		Usage: models.Usage{
			LastResetDate:         calendarDate(now),
			DailySpeedExercises:   0,
			DailyDictationMinutes: 0,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: uid %q", ErrProfileExists, sess.UID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Cache only after the durable write succeeded.
	sess.profile = profile
	s.record(ctx, sess.UID, models.ActionProfileCreate, map[string]interface{}{"email": sess.Email})
	return profile, nil
}

func (s *profileService) Initialize(ctx context.Context, sess *Session) (*models.UserProfile, bool, error) {
	profile, err := s.Load(ctx, sess)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	profile, err = s.Create(ctx, sess)
	if err != nil {
		return nil, false, err
	}
	return profile, true, nil
}

func (s *profileService) Load(ctx context.Context, sess *Session) (*models.UserProfile, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUID(ctx, sess.UID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: uid %q", ErrProfileNotFound, sess.UID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sess.profile = profile
	return profile, nil
}

// cachedProfile returns the session's cached profile, loading it from the
// store on a cache miss.
func (s *profileService) cachedProfile(ctx context.Context, sess *Session) (*models.UserProfile, error) {
	if sess.profile != nil {
		return sess.profile, nil
	}
	return s.Load(ctx, sess)
}

func (s *profileService) UpdateProfile(ctx context.Context, sess *Session, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	profile, err := s.cachedProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.DisplayName != nil {
		fields["displayName"] = *req.DisplayName
	}
	if len(fields) == 0 {
		return profile, nil
	}

	now := s.clock.Now().UTC()
	fields["updatedAt"] = now
	if err := s.persist(ctx, sess.UID, fields); err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	profile.UpdatedAt = now
	return profile, nil
}

// mergeSubscription applies the shallow-merge rule: supplied keys
// overwrite, omitted keys are retained. UpdatedAt is always stamped.
func mergeSubscription(current models.Subscription, delta models.SubscriptionDelta, now time.Time) models.Subscription {
	merged := current
	if delta.Plan != nil {
		merged.Plan = *delta.Plan
	}
	if delta.Status != nil {
		// Accepted verbatim; status transitions are the billing side's
		// responsibility.
		merged.Status = *delta.Status
	}
	if delta.StartDate != nil {
		merged.StartDate = *delta.StartDate
	}
	if delta.EndDate != nil {
		end := *delta.EndDate
		merged.EndDate = &end
	}
	merged.UpdatedAt = now
	return merged
}

func (s *profileService) UpdateSubscription(ctx context.Context, sess *Session, delta models.SubscriptionDelta) (*models.UserProfile, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	profile, err := s.cachedProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	merged := mergeSubscription(profile.Subscription, delta, now)

	// The whole subscription object is written so the store's top-level
	// merge cannot drop omitted nested fields.
	fields := map[string]interface{}{
		"subscription": merged,
		"updatedAt":    now,
	}
	if err := s.persist(ctx, sess.UID, fields); err != nil {
		return nil, err
	}

	profile.Subscription = merged
	profile.UpdatedAt = now
	s.record(ctx, sess.UID, models.ActionSubscriptionUpdate, map[string]interface{}{
		"plan":   merged.Plan,
		"status": merged.Status,
	})
	return profile, nil
}

func (s *profileService) ApplySubscriptionEvent(ctx context.Context, uid string, delta models.SubscriptionDelta) error {
	if uid == "" {
		return fmt.Errorf("%w: empty uid in subscription event", ErrProfileNotFound)
	}

	profile, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: uid %q", ErrProfileNotFound, uid)
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := s.clock.Now().UTC()
	merged := mergeSubscription(profile.Subscription, delta, now)
	fields := map[string]interface{}{
		"subscription": merged,
		"updatedAt":    now,
	}
	if err := s.persist(ctx, uid, fields); err != nil {
		return err
	}

	s.record(ctx, uid, models.ActionSubscriptionUpdate, map[string]interface{}{
		"plan":   merged.Plan,
		"status": merged.Status,
		"source": "webhook",
	})
	return nil
}

func (s *profileService) TrackUsage(ctx context.Context, sess *Session, kind string, amount int) (*models.Usage, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if amount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidUsageAmount, amount)
	}
	if kind != models.UsageKindSpeedExercise && kind != models.UsageKindDictation {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsageKind, kind)
	}

	profile, err := s.cachedProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	usage := profile.Usage
	today := calendarDate(s.clock.Now())
	if usage.LastResetDate != today {
		// Lazy write-time rollover: both daily counters reset together the
		// first time usage is recorded on a new calendar date.
		usage.DailySpeedExercises = 0
		usage.DailyDictationMinutes = 0
		usage.LastResetDate = today
	}

	switch kind {
	case models.UsageKindSpeedExercise:
		usage.DailySpeedExercises += amount
	case models.UsageKindDictation:
		usage.DailyDictationMinutes += amount
	}

	now := s.clock.Now().UTC()
	fields := map[string]interface{}{
		"usage":     usage,
		"updatedAt": now,
	}
	// Persist first, commit to the cache after: a failed write must leave
	// the cached counters matching the store.
	if err := s.persist(ctx, sess.UID, fields); err != nil {
		return nil, err
	}

	profile.Usage = usage
	profile.UpdatedAt = now
	s.record(ctx, sess.UID, models.ActionUsageTrack, map[string]interface{}{
		"kind":   kind,
		"amount": amount,
	})
	return &usage, nil
}

func (s *profileService) RecordProgress(ctx context.Context, sess *Session, req models.RecordProgressRequest) (*models.UserProfile, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	profile, err := s.cachedProfile(ctx, sess)
	if err != nil {
		return nil, err
	}

	progress := profile.Progress
	progress.CompletedModules = append([]string(nil), profile.Progress.CompletedModules...)

	if req.CurrentModule != nil {
		if _, ok := content.ModuleByID(*req.CurrentModule); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModule, *req.CurrentModule)
		}
		progress.CurrentModule = *req.CurrentModule
	}

	if req.CompletedModule != nil {
		completed := *req.CompletedModule
		if _, ok := content.ModuleByID(completed); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModule, completed)
		}
		if !containsString(progress.CompletedModules, completed) {
			progress.CompletedModules = append(progress.CompletedModules, completed)
		}
		// Finishing the module the learner is on advances them to the next
		// one in teaching order.
		if progress.CurrentModule == completed {
			if next, ok := content.NextModuleID(completed); ok {
				progress.CurrentModule = next
			}
		}
	}

	if req.SpeedExercises != nil && *req.SpeedExercises > 0 {
		added := *req.SpeedExercises
		prev := progress.TotalSpeedExercises
		progress.TotalSpeedExercises = prev + added
		if req.Speed != nil {
			progress.AverageSpeed = foldAverage(progress.AverageSpeed, prev, *req.Speed, added)
		}
		if req.Accuracy != nil {
			progress.AverageAccuracy = foldAverage(progress.AverageAccuracy, prev, *req.Accuracy, added)
		}
	}

	if req.DictationMinutes != nil && *req.DictationMinutes > 0 {
		progress.TotalDictationMinutes += *req.DictationMinutes
	}

	now := s.clock.Now().UTC()
	fields := map[string]interface{}{
		"progress":  progress,
		"updatedAt": now,
	}
	if err := s.persist(ctx, sess.UID, fields); err != nil {
		return nil, err
	}

	profile.Progress = progress
	profile.UpdatedAt = now
	s.record(ctx, sess.UID, models.ActionProgressRecord, map[string]interface{}{
		"currentModule": progress.CurrentModule,
	})
	return profile, nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// foldAverage merges a new sample mean into a running mean, weighted by
// the exercise counts each represents.
func foldAverage(currentAvg float64, currentCount int, sampleAvg float64, sampleCount int) float64 {
	total := currentCount + sampleCount
	if total == 0 {
		return currentAvg
	}
	return (currentAvg*float64(currentCount) + sampleAvg*float64(sampleCount)) / float64(total)
}
