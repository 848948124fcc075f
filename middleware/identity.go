package middleware

import (
	"net/http"
	"strings"

	"cart-bff/common/auth"
	"cart-bff/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by Identity.
const (
	ContextUserID  = "user_id"
	ContextGuestID = "guest_id"
)

// GuestIDHeader carries the guest cart identity issued by this service.
const GuestIDHeader = "X-Guest-ID"

// Identity resolves the caller to either an authenticated user or a
// guest. A missing or invalid bearer token never fails the request:
// the caller silently falls back to guest mode, mirroring how the cart
// degrades when auth state goes stale. New guests get an id issued in
// the response header.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := bearerToken(c); tokenStr != "" {
			if claims, err := auth.Verify(tokenStr, "access"); err == nil {
				if userID, err := auth.Subject(claims); err == nil {
					c.Set(ContextUserID, userID)
				}
			}
		}

		guestID := c.GetHeader(GuestIDHeader)
		if guestID == "" {
			guestID = uuid.NewString()
		}
		c.Set(ContextGuestID, guestID)
		c.Header(GuestIDHeader, guestID)

		c.Next()
	}
}

// RequireUser aborts with 401 unless the request carries a valid user
// identity. Used for routes that have no guest fallback (order
// history, favorites).
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserID); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "reauth": true})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SourceFromContext builds the cart source for the current request.
func SourceFromContext(c *gin.Context) models.CartSource {
	return models.CartSource{
		UserID:  c.GetString(ContextUserID),
		GuestID: c.GetString(ContextGuestID),
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
