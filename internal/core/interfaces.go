package core

import (
	"context"

	"stenolearn-backend-go/internal/models"
)

// ProfileService owns the authoritative learner profile: identity
// metadata, subscription tier, learning progress and the per-day usage
// counters. Every session-bound operation takes an explicit *Session and
// acts on the UID that session was created for.
type ProfileService interface {
	// Create builds a fresh profile with the default subscription, empty
	// progress and zeroed usage counters. It fails with ErrProfileExists
	// when the UID is already bound; no partial state is cached on failure.
	Create(ctx context.Context, sess *Session) (*models.UserProfile, error)

	// Initialize loads the profile and creates it when absent. It is
	// called once per identity-creation event; session restores hit the
	// load path. The bool reports whether a profile was created.
	Initialize(ctx context.Context, sess *Session) (*models.UserProfile, bool, error)

	// Load returns the stored profile verbatim and refreshes the session
	// cache. ErrProfileNotFound means "not yet created", distinct from
	// ErrStoreUnavailable.
	Load(ctx context.Context, sess *Session) (*models.UserProfile, error)

	// UpdateProfile merges sparse top-level overrides; absent fields are
	// never cleared.
	UpdateProfile(ctx context.Context, sess *Session, req models.UpdateProfileRequest) (*models.UserProfile, error)

	// UpdateSubscription shallow-merges the delta into the subscription
	// and stamps its UpdatedAt marker. It is the only writer of the
	// subscription sub-object and touches nothing else.
	UpdateSubscription(ctx context.Context, sess *Session, delta models.SubscriptionDelta) (*models.UserProfile, error)

	// ApplySubscriptionEvent is the trusted webhook path for subscription
	// changes: same merge as UpdateSubscription, keyed by UID, no session
	// cache involved. Callers must have authenticated the event
	// themselves (Stripe signature verification).
	ApplySubscriptionEvent(ctx context.Context, uid string, delta models.SubscriptionDelta) error

	// TrackUsage applies the lazy daily rollover and increments the
	// counter for kind by amount. The new usage object is persisted as a
	// full replacement and only then committed to the session cache.
	TrackUsage(ctx context.Context, sess *Session, kind string, amount int) (*models.Usage, error)

	// RecordProgress folds incremental learning results into the progress
	// accumulators.
	RecordProgress(ctx context.Context, sess *Session, req models.RecordProgressRequest) (*models.UserProfile, error)
}

// ActivityService records learner-visible events in the activity log.
type ActivityService interface {
	Record(ctx context.Context, userID, action string, details map[string]interface{}) error
}

// BillingService is the checkout/billing boundary.
type BillingService interface {
	// CreateCheckoutSession returns an opaque checkout session ID for the
	// given price. Failures are surfaced as-is, with no retry.
	CreateCheckoutSession(ctx context.Context, sess *Session, priceID string) (string, error)

	// HandleStripeWebhook verifies the signature and applies
	// subscription-shaped events to the profile store.
	HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error
}

// CheckoutClient is the transport behind CreateCheckoutSession.
type CheckoutClient interface {
	CreateSession(ctx context.Context, uid, priceID string) (string, error)
}
