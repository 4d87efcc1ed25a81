package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CreateCheckoutSessionRequest asks for a checkout session for one price.
type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId" binding:"required"`
}

// CreateCheckoutSessionResponse returns the opaque checkout session ID.
type CreateCheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
}
