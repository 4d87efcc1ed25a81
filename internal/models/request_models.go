package models

import "time"

// UpdateProfileRequest carries sparse top-level profile overrides.
// Pointers distinguish "not provided" from an explicit empty value; absent
// fields are never cleared.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
}

// SubscriptionDelta is a shallow merge into the stored subscription:
// supplied keys overwrite, omitted keys are retained.
type SubscriptionDelta struct {
	Plan      *string    `json:"plan,omitempty"`
	Status    *string    `json:"status,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// TrackUsageRequest records daily activity of one kind.
type TrackUsageRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Amount int    `json:"amount" binding:"required,min=1"`
}

// RecordProgressRequest carries incremental learning results. Counters are
// added to the stored totals; averages are folded in weighted by the
// exercise counts they represent.
type RecordProgressRequest struct {
	CurrentModule    *string  `json:"currentModule,omitempty"`
	CompletedModule  *string  `json:"completedModule,omitempty"`
	SpeedExercises   *int     `json:"speedExercises,omitempty"`
	DictationMinutes *int     `json:"dictationMinutes,omitempty"`
	Speed            *float64 `json:"speed,omitempty"`
	Accuracy         *float64 `json:"accuracy,omitempty"`
}
