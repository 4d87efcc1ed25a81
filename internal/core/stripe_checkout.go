package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const stripeCheckoutSessionsURL = "https://api.stripe.com/v1/checkout/sessions"

// stripeCheckoutClient implements CheckoutClient against Stripe's checkout
// sessions REST endpoint. The learner's UID travels as the client
// reference and as subscription metadata so the webhook can route the
// resulting events back to the profile.
type stripeCheckoutClient struct {
	secretKey   string
	successURL  string
	cancelURL   string
	endpointURL string
	httpClient  *http.Client
}

// NewStripeCheckoutClient creates a CheckoutClient that talks to Stripe.
func NewStripeCheckoutClient(secretKey, successURL, cancelURL string) CheckoutClient {
	return &stripeCheckoutClient{
		secretKey:   secretKey,
		successURL:  successURL,
		cancelURL:   cancelURL,
		endpointURL: stripeCheckoutSessionsURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *stripeCheckoutClient) CreateSession(ctx context.Context, uid, priceID string) (string, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("client_reference_id", uid)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("subscription_data[metadata][uid]", uid)
	if c.successURL != "" {
		form.Set("success_url", c.successURL)
	}
	if c.cancelURL != "" {
		form.Set("cancel_url", c.cancelURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read checkout response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if session.ID == "" {
		return "", fmt.Errorf("stripe response did not contain a session id")
	}
	return session.ID, nil
}
