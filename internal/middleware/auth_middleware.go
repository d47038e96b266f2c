package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
	"github.com/rahulm/classtrack/internal/pkg/auth"
)

// AuthMiddleware guards routes that require a valid access token.
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the caller's identity on the
// request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token format")))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code = dto.ErrorCodeExpiredToken
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(code, "Authentication failed")))
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RoleRequired allows the request through only when the caller holds one of
// the given roles. Must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
			return
		}

		roleStr, ok := role.(string)
		if ok {
			for _, r := range roles {
				if roleStr == r {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "You don't have sufficient permissions for this operation")))
	}
}
