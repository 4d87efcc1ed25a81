package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"stenolearn-backend-go/internal/core"
)

// BillingHandler handles the checkout and webhook endpoints.
type BillingHandler struct {
	billingService core.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService) *BillingHandler {
	return &BillingHandler{billingService: bs}
}

func mapBillingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
	case errors.Is(err, core.ErrWebhookSignature):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook signature verification failed"})
	case errors.Is(err, core.ErrWebhookPayload):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Webhook payload is malformed", Details: err.Error()})
	case errors.Is(err, core.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
	case errors.Is(err, core.ErrCheckoutFailed):
		log.Printf("BillingHandler: checkout failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Payment provider error", Details: "Could not complete the operation with the payment provider."})
	case errors.Is(err, core.ErrStoreUnavailable):
		log.Printf("BillingHandler: store unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Profile store is temporarily unavailable"})
	default:
		log.Printf("BillingHandler: unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateCheckoutSession handles POST /api/v1/billing/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: session not found in context"})
		return
	}

	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	sessionID, err := h.billingService.CreateCheckoutSession(c.Request.Context(), sess, req.PriceID)
	if err != nil {
		mapBillingError(c, err)
		return
	}
	c.JSON(http.StatusOK, CreateCheckoutSessionResponse{SessionID: sessionID})
}

// HandleStripeWebhook handles POST /api/v1/billing/webhooks/stripe. The
// endpoint is public; Stripe authenticates with the Stripe-Signature
// header, verified in the billing service.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read webhook payload", Details: err.Error()})
		return
	}

	if err := h.billingService.HandleStripeWebhook(c.Request.Context(), signature, payload); err != nil {
		mapBillingError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received successfully"})
}
