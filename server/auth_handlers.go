package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/tuuze/pkg/auth"
	"github.com/example/tuuze/pkg/models"
	"github.com/example/tuuze/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const resetTokenTTL = 10 * time.Minute

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Please provide name, email and password")
		return
	}

	// Self-registration never grants admin.
	role := models.RoleCustomer
	if req.Role == models.RoleVendor {
		role = models.RoleVendor
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.handleError(c, err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     role,
		Phone:    req.Phone,
		Address:  req.Address,
		Active:   true,
	}
	if err := s.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			respondError(c, http.StatusBadRequest, "User already exists with this email")
			return
		}
		s.handleError(c, err)
		return
	}

	s.sendToken(c, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		respondError(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	s.sendToken(c, http.StatusOK, user)
}

func (s *Server) logout(c *gin.Context) {
	if token := extractToken(c); token != "" && s.cache != nil {
		if _, remaining, err := s.tokens.Verify(token); err == nil {
			if err := s.cache.RevokeToken(c.Request.Context(), token, remaining); err != nil {
				s.logger.Warn("failed to revoke token", zap.Error(err))
			}
		}
	}

	c.SetCookie(jwtCookieName, "loggedout", 10, "/", "", s.config.Server.SecureCookie, true)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

func (s *Server) getCurrentUser(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"user": currentUser(c)})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) updatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
		respondError(c, http.StatusBadRequest, "Please provide current and new password")
		return
	}

	user := currentUser(c)
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		respondError(c, http.StatusUnauthorized, "Your current password is wrong")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.handleError(c, err)
		return
	}
	user.Password = hash
	if err := s.users.Update(c.Request.Context(), user); err != nil {
		s.handleError(c, err)
		return
	}

	s.sendToken(c, http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		respondError(c, http.StatusBadRequest, "Please provide an email address")
		return
	}

	user, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "There is no user with that email address")
			return
		}
		s.handleError(c, err)
		return
	}

	token, tokenHash, err := auth.NewResetToken()
	if err != nil {
		s.handleError(c, err)
		return
	}
	user.PasswordResetToken = tokenHash
	user.PasswordResetExpires = time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.Update(c.Request.Context(), user); err != nil {
		s.handleError(c, err)
		return
	}

	// Email delivery is out of scope; the token is returned directly.
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Token sent to email",
		"resetToken": token,
	})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Please provide a new password")
		return
	}

	tokenHash := auth.HashResetToken(c.Param("token"))
	user, err := s.users.GetByResetToken(c.Request.Context(), tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusBadRequest, "Token is invalid or has expired")
			return
		}
		s.handleError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.handleError(c, err)
		return
	}
	user.Password = hash
	user.PasswordResetToken = ""
	user.PasswordResetExpires = time.Time{}
	if err := s.users.Update(c.Request.Context(), user); err != nil {
		s.handleError(c, err)
		return
	}

	s.sendToken(c, http.StatusOK, user)
}

// sendToken issues a session token, sets the jwt cookie and writes the
// user payload.
func (s *Server) sendToken(c *gin.Context, status int, user *models.User) {
	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	maxAge := int(s.config.JWT.CookieExpires / time.Second)
	c.SetCookie(jwtCookieName, token, maxAge, "/", "", s.config.Server.SecureCookie, true)

	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"data":    gin.H{"user": user},
	})
}
