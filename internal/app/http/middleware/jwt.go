package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"clinic-billing/internal/app/session"
)

const (
	claimsKey = "claims"
	entryKey  = "session"
)

// TokenClaims is the dashboard session token issued by the platform.
type TokenClaims struct {
	Tenant    string `json:"tenant"`
	SessionID string `json:"sid,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the HS256 bearer token and stores its claims.
func AuthMiddleware(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "JWT secret not configured"})
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			return
		}

		var claims TokenClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired", "code": "token_expired"})
				return
			}
			logger.Debug("rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		tenant := strings.TrimSpace(claims.Tenant)
		if tenant == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has no tenant"})
			return
		}

		sid := claims.SessionID
		if sid == "" {
			sid = claims.ID
		}
		if sid == "" {
			sid = claims.Subject
		}
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		sc := session.Claims{
			ID:         sid,
			UserID:     claims.Subject,
			TenantSlug: tenant,
			Role:       claims.Role,
			Token:      tokenString,
		}
		if claims.ExpiresAt != nil {
			sc.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(claimsKey, sc)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthMiddleware.
func ClaimsFrom(c *gin.Context) (session.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return session.Claims{}, false
	}
	sc, ok := v.(session.Claims)
	return sc, ok
}
