package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"legacybook/internal/services"
	"legacybook/internal/transport/httpdto"
	legacy_errors "legacybook/pkg/errors"
	"legacybook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthMiddleware verifies the bearer token issued by the external identity
// provider and resolves the caller's administrator profile. A valid token
// without a profile row is not an administrator.
func AuthMiddleware(secret string, directory services.AdminDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("missing authorization", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		claims := jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("invalid authorization", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		adminID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("invalid authorization", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		profile, err := directory.Lookup(c.Request.Context(), adminID)
		if err != nil {
			if errors.Is(err, legacy_errors.ErrNotFound) {
				c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("admin access required", "FORBIDDEN"))
			} else {
				c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("admin lookup failed", "INTERNAL_ERROR"))
			}
			c.Abort()
			return
		}

		ctx := services.WithAdminContext(c.Request.Context(), profile)
		ctx = context.WithValue(ctx, logger.AdminIdKey, profile.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole gates a route group on the caller's resolved role. Must run
// after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := services.AdminFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("missing authorization", "UNAUTHORIZED"))
			c.Abort()
			return
		}
		if !slices.Contains(roles, profile.Role) {
			c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("insufficient role", "FORBIDDEN"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
