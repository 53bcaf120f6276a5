package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Responder
	Auth *services.AuthService
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,oneof=employer applicant"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

func sessionPayload(session *services.Session) gin.H {
	return gin.H{
		"id":         session.User.ID,
		"name":       session.User.Name,
		"email":      session.User.Email,
		"role":       session.User.Role,
		"token":      session.Token,
		"expires_in": int64(session.ExpiresIn / time.Second),
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	session, err := h.Auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, sessionPayload(session))
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, sessionPayload(session))
}

// VerifyToken never fails: an unusable token just reports valid=false.
// The token comes from the body, falling back to the Authorization header.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req verifyTokenRequest
	_ = c.ShouldBindJSON(&req)

	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}

	claims, ok := h.Auth.VerifyToken(token)
	if !ok {
		respondOK(c, http.StatusOK, gin.H{"valid": false})
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"valid": true,
		"user": gin.H{
			"id":    claims.UserID,
			"email": claims.Email,
			"role":  claims.Role,
		},
		"expires_at": claims.ExpiresAt.Time,
	})
}

// Logout is stateless; clients drop the token.
func (h *AuthHandler) Logout(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, user)
}
