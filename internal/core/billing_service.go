package core

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stenolearn-backend-go/internal/models"
)

// Errors surfaced by the billing boundary.
var (
	ErrCheckoutFailed   = errors.New("checkout session creation failed")
	ErrWebhookSignature = errors.New("webhook signature verification failed")
	ErrWebhookPayload   = errors.New("webhook payload is malformed")
)

// webhookTolerance bounds how old a signed webhook timestamp may be.
const webhookTolerance = 5 * time.Minute

// billingService implements BillingService. Checkout transport lives
// behind CheckoutClient; subscription changes flow through the profile
// service's trusted webhook path.
type billingService struct {
	checkout      CheckoutClient
	profiles      ProfileService
	webhookSecret string
	clock         Clock
}

// NewBillingService creates a BillingService. A nil clock falls back to
// the system clock.
func NewBillingService(checkout CheckoutClient, profiles ProfileService, webhookSecret string, clock Clock) BillingService {
	if clock == nil {
		clock = SystemClock()
	}
	return &billingService{
		checkout:      checkout,
		profiles:      profiles,
		webhookSecret: webhookSecret,
		clock:         clock,
	}
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, sess *Session, priceID string) (string, error) {
	if err := requireSession(sess); err != nil {
		return "", err
	}
	if priceID == "" {
		return "", fmt.Errorf("%w: priceID is required", ErrCheckoutFailed)
	}
	if s.checkout == nil {
		return "", fmt.Errorf("%w: no checkout client configured", ErrCheckoutFailed)
	}

	// No retry: the caller surfaces success or failure of this call as-is.
	sessionID, err := s.checkout.CreateSession(ctx, sess.UID, priceID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}
	return sessionID, nil
}

// stripeEvent is the slice of the Stripe event envelope this service acts
// on.
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object stripeSubscription `json:"object"`
	} `json:"data"`
}

type stripeSubscription struct {
	Status           string `json:"status"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
	Metadata         struct {
		UID  string `json:"uid"`
		Plan string `json:"plan"`
	} `json:"metadata"`
}

func (s *billingService) HandleStripeWebhook(ctx context.Context, signature string, payload []byte) error {
	if err := s.verifySignature(signature, payload); err != nil {
		return err
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookPayload, err)
	}

	switch event.Type {
	case "customer.subscription.updated":
		return s.applySubscriptionObject(ctx, event.Data.Object, nil)
	case "customer.subscription.deleted":
		canceled := models.StatusCanceled
		return s.applySubscriptionObject(ctx, event.Data.Object, &canceled)
	default:
		// Event types this service does not act on are acknowledged so
		// Stripe stops redelivering them.
		return nil
	}
}

func (s *billingService) applySubscriptionObject(ctx context.Context, sub stripeSubscription, statusOverride *string) error {
	if sub.Metadata.UID == "" {
		return fmt.Errorf("%w: subscription event without uid metadata", ErrWebhookPayload)
	}

	delta := models.SubscriptionDelta{}
	// The status is applied verbatim; transition validity is the billing
	// provider's concern.
	if statusOverride != nil {
		delta.Status = statusOverride
	} else if sub.Status != "" {
		status := sub.Status
		delta.Status = &status
	}
	if sub.Metadata.Plan != "" {
		plan := sub.Metadata.Plan
		delta.Plan = &plan
	}
	if sub.CurrentPeriodEnd > 0 {
		end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		delta.EndDate = &end
	}

	return s.profiles.ApplySubscriptionEvent(ctx, sub.Metadata.UID, delta)
}

// verifySignature checks the Stripe-Signature header: an HMAC-SHA256 of
// "<t>.<payload>" with the webhook secret, carried in the v1 field, with
// the timestamp bounded by webhookTolerance.
func (s *billingService) verifySignature(signature string, payload []byte) error {
	if s.webhookSecret == "" {
		return fmt.Errorf("%w: no webhook secret configured", ErrWebhookSignature)
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return fmt.Errorf("%w: missing timestamp or v1 signature", ErrWebhookSignature)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrWebhookSignature, timestamp)
	}
	age := s.clock.Now().Sub(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrWebhookSignature)
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching v1 signature", ErrWebhookSignature)
}
