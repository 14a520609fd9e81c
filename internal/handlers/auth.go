package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/services"
)

const authCookieName = "token"

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, token, err := ah.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	ah.setAuthCookie(c, token)
	RespondCreated(c, gin.H{
		"user":  user,
		"token": token,
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	ah.setAuthCookie(c, token)
	RespondOK(c, gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout only clears the cookie; tokens are stateless and expire on their own.
func (ah *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
	RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	maxAge := int(ah.authService.TokenTTL().Seconds())
	c.SetCookie(authCookieName, token, maxAge, "/", "", false, true)
}
