package models

import "time"

// Subscription plans and statuses. Statuses are stored verbatim from the
// billing webhook; no transition validation happens on this side.
const (
	PlanFree = "free"
	PlanPro  = "pro"

	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
)

// Usage kinds accepted by the usage tracker.
const (
	UsageKindSpeedExercise = "speedExercise"
	UsageKindDictation     = "dictation"
)

// Subscription describes the learner's billing state. It is always written
// to the store as a whole object, never as a nested partial.
type Subscription struct {
	Plan      string     `json:"plan" firestore:"plan"`
	Status    string     `json:"status" firestore:"status"`
	StartDate time.Time  `json:"startDate" firestore:"startDate"`
	EndDate   *time.Time `json:"endDate" firestore:"endDate"`
	UpdatedAt time.Time  `json:"updatedAt" firestore:"updatedAt"`
}

// Progress holds the learner's cumulative curriculum state.
type Progress struct {
	CurrentModule         string   `json:"currentModule" firestore:"currentModule"`
	CompletedModules      []string `json:"completedModules" firestore:"completedModules"`
	TotalSpeedExercises   int      `json:"totalSpeedExercises" firestore:"totalSpeedExercises"`
	TotalDictationMinutes int      `json:"totalDictationMinutes" firestore:"totalDictationMinutes"`
	AverageSpeed          float64  `json:"averageSpeed" firestore:"averageSpeed"`
	AverageAccuracy       float64  `json:"averageAccuracy" firestore:"averageAccuracy"`
}

// Usage holds the per-day counters. LastResetDate is a calendar date in
// "2006-01-02" form; the counters roll over lazily the next time usage is
// recorded on a later date, not on a midnight timer.
type Usage struct {
	LastResetDate         string `json:"lastResetDate" firestore:"lastResetDate"`
	DailySpeedExercises   int    `json:"dailySpeedExercises" firestore:"dailySpeedExercises"`
	DailyDictationMinutes int    `json:"dailyDictationMinutes" firestore:"dailyDictationMinutes"`
}

// UserProfile is the authoritative per-learner document. The Firebase Auth
// UID doubles as the Firestore document ID.
type UserProfile struct {
	UID          string       `json:"uid" firestore:"-"`
	Email        string       `json:"email" firestore:"email"`
	DisplayName  string       `json:"displayName,omitempty" firestore:"displayName"`
	Subscription Subscription `json:"subscription" firestore:"subscription"`
	Progress     Progress     `json:"progress" firestore:"progress"`
	Usage        Usage        `json:"usage" firestore:"usage"`
	CreatedAt    time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

// Clone returns a deep copy so a cached profile and a stored one never
// share the CompletedModules slice.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Subscription.EndDate != nil {
		end := *p.Subscription.EndDate
		cp.Subscription.EndDate = &end
	}
	if p.Progress.CompletedModules != nil {
		cp.Progress.CompletedModules = append([]string(nil), p.Progress.CompletedModules...)
	}
	return &cp
}
