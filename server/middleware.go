package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/example/tuuze/pkg/models"
	"github.com/example/tuuze/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	jwtCookieName = "jwt"
	ctxUserKey    = "currentUser"
)

var (
	rolesVendor = []string{models.RoleVendor}
	rolesAdmin  = []string{models.RoleAdmin}
)

// protect authenticates the request from the jwt cookie or a bearer token,
// rejects revoked tokens, and loads the user into the request context.
func (s *Server) protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "You are not logged in. Please log in to get access.")
			return
		}

		userID, _, err := s.tokens.Verify(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if s.cache != nil {
			revoked, err := s.cache.IsTokenRevoked(c.Request.Context(), token)
			if err != nil {
				s.logger.Warn("token denylist check failed", zap.Error(err))
			} else if revoked {
				respondError(c, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
		}

		user, err := s.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondError(c, http.StatusUnauthorized, "The user belonging to this token no longer exists")
				return
			}
			s.handleError(c, err)
			return
		}
		if !user.Active {
			respondError(c, http.StatusForbidden, "Your account has been deactivated")
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// restrictTo gates a route group to the given roles. It must run after
// protect.
func (s *Server) restrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, http.StatusForbidden, "You do not have permission to perform this action")
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(ctxUserKey).(*models.User)
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(jwtCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
