package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arjunvsingh/CareerExchange/internal/apperrors"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const userContextKey = "user"

// Authenticator resolves a bearer token to the stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// resolved user in the gin context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Access token required")
			return
		}

		tokenParts := strings.Fields(authHeader)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "Authorization header must be in the format 'Bearer {token}'")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), tokenParts[1])
		if err != nil {
			kind := apperrors.KindOf(err)
			if kind == apperrors.KindUnauthenticated {
				abort(c, http.StatusUnauthorized, messageOf(err, "Invalid token"))
				return
			}
			log.WithFields(log.Fields{
				"request_id": RequestIDFromContext(c),
				"error":      err,
			}).Error("Authentication failed")
			abort(c, kind.HTTPStatus(), "Authentication failed")
			return
		}

		SetCurrentUser(c, *user)
		c.Next()
	}
}

// RequireRole lets the request through only when the authenticated user holds role.
// It must run after AuthMiddleware.
func RequireRole(role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Access token required")
			return
		}
		if !user.Is(role) {
			abort(c, http.StatusForbidden, message)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// SetCurrentUser stores user on the context the same way AuthMiddleware does.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

func messageOf(err error, fallback string) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
