package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type currentKey struct{}

// Current describes the request being served.
type Current struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Method    string
	Path      string
}

// CurrentMiddleware echoes X-Request-ID, generating one when absent, and
// stores the request description on the context.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)

		if requestID == "" {
			requestID = uuid.NewString()
		}

		current := &Current{
			RequestID: requestID,
			ClientIP:  GetClientIP(c),
			UserAgent: c.Request.UserAgent(),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
		}

		c.Header(RequestIDHeader, requestID)
		c.Set("current", current)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), currentKey{}, current))

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *Current {
	if current, ok := c.Get("current"); ok {
		if curr, ok := current.(*Current); ok {
			return curr
		}
	}

	if current, ok := FromContext(c.Request.Context()); ok {
		return current
	}

	return &Current{}
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(currentKey{}).(*Current)

	return current, ok
}
