package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-billing/internal/app/session"
)

// SessionMiddleware attaches the session's billing controller. A tenant
// change in the token is applied before the handler runs.
func SessionMiddleware(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}
		c.Set(entryKey, reg.Resolve(claims))
		c.Next()
	}
}

// EntryFrom returns the session entry stored by SessionMiddleware.
func EntryFrom(c *gin.Context) (*session.Entry, bool) {
	v, ok := c.Get(entryKey)
	if !ok {
		return nil, false
	}
	e, ok := v.(*session.Entry)
	return e, ok && e != nil
}
