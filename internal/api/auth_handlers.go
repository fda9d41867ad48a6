package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/middleware"
	"patrimonio/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_credentials"})
		return
	}

	user, err := s.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		case errors.Is(err, models.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "user_inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed"})
		}
		return
	}

	session, err := s.Sessions.Issue(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session_failed"})
		return
	}

	maxAge := int(session.ExpiresAt.Sub(session.IssuedAt).Seconds())
	c.SetCookie(middleware.SessionCookie, session.Token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": session.Token, "user": session.User, "expires_at": session.ExpiresAt})
}

func (s *Server) handleLogout(c *gin.Context) {
	if session, ok := middleware.SessionFrom(c); ok {
		s.Sessions.Revoke(session.Token)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (s *Server) handleMe(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": session.User, "expires_at": session.ExpiresAt})
}

func sessionUserID(c *gin.Context) int64 {
	if session, ok := middleware.SessionFrom(c); ok {
		return session.User.ID
	}
	return 0
}
