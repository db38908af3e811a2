package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jpashop/backend/internal/infrastructure/auth"
	"github.com/jpashop/backend/internal/infrastructure/logger"
	"github.com/jpashop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Bearer token context keys
const (
	AuthClaimsKey  = "auth_claims"
	AuthSubjectKey = "auth_subject"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// BearerAuthConfig holds configuration for the bearer token guard
type BearerAuthConfig struct {
	Tokens *auth.TokenService
	// RequiredScope is checked when set
	RequiredScope string
	Logger        *zap.Logger
}

// BearerAuth rejects requests without a valid bearer token
func BearerAuth(cfg BearerAuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if tokenString == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.Tokens.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}
		if cfg.RequiredScope != "" && !claims.HasScope(cfg.RequiredScope) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Token lacks scope "+cfg.RequiredScope, GetRequestID(c)))
			return
		}

		c.Set(AuthClaimsKey, claims)
		c.Set(AuthSubjectKey, claims.Subject)

		ctx := c.Request.Context()
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("auth_subject", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, cfg BearerAuthConfig, err error, message string) {
	cfg.Logger.Warn("Bearer authentication failed",
		zap.Error(err),
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrInvalidClaims):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, msg, GetRequestID(c)))
}

// GetAuthClaims returns the claims stored by BearerAuth
func GetAuthClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(AuthClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAuthSubject returns the authenticated subject, or "" for anonymous requests
func GetAuthSubject(c *gin.Context) string {
	return c.GetString(AuthSubjectKey)
}
