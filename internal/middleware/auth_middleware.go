package middleware

import (
	"log"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"stenolearn-backend-go/internal/core"
)

// SessionKey is the gin context key under which the verified session is
// stored for downstream handlers.
const SessionKey = "session"

// ErrorResponse mirrors the API error shape; defined locally to avoid an
// import cycle with internal/api.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware authenticates requests with Firebase ID tokens.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
}

// NewAuthMiddleware creates an AuthMiddleware. The Firebase Auth client is
// a hard setup dependency.
func NewAuthMiddleware(fbAuthClient *auth.Client) *AuthMiddleware {
	if fbAuthClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{firebaseAuthClient: fbAuthClient}
}

// VerifyToken validates the Bearer token from the Authorization header and
// puts a core.Session for the verified identity into the gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			// The upstream message is logged verbatim; the client gets a
			// generic response.
			log.Printf("AuthMiddleware: %v: %v", core.ErrUpstreamAuth, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		email, _ := token.Claims["email"].(string)
		displayName, _ := token.Claims["name"].(string)
		c.Set(SessionKey, core.NewSession(token.UID, email, displayName))
		c.Next()
	}
}

// LocalAuth is the guest/local-only stand-in for Firebase auth: it trusts
// the X-User-ID header. Only wired when LOCAL_MODE=true.
func LocalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetHeader("X-User-ID")
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "X-User-ID header is required in local mode"})
			return
		}
		email := c.GetHeader("X-User-Email")
		displayName := c.GetHeader("X-User-Name")
		c.Set(SessionKey, core.NewSession(uid, email, displayName))
		c.Next()
	}
}
