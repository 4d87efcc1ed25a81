package models

import "time"

// Activity actions recorded by the profile service.
const (
	ActionProfileCreate      = "PROFILE_CREATE"
	ActionSubscriptionUpdate = "SUBSCRIPTION_UPDATE"
	ActionUsageTrack         = "USAGE_TRACK"
	ActionProgressRecord     = "PROGRESS_RECORD"
)

// ActivityEntry is an append-only record of a learner-visible event.
type ActivityEntry struct {
	ID        string                 `json:"id" firestore:"-"`
	UserID    string                 `json:"userId" firestore:"userId"`
	Action    string                 `json:"action" firestore:"action"`
	Details   map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp" firestore:"timestamp"`
}
