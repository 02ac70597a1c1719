package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chat-local/internal/handlers/dto"
	"github.com/thereayou/chat-local/internal/middleware"
	"github.com/thereayou/chat-local/internal/models"
	"github.com/thereayou/chat-local/internal/session"
	"github.com/thereayou/chat-local/pkg/auth"
)

type AuthHandler struct {
	jwtManager  *auth.JWTManager
	passcode    *auth.PasscodeChecker
	revocations session.Revocations
}

func NewAuthHandler(jwtMgr *auth.JWTManager, passcode *auth.PasscodeChecker, revocations session.Revocations) *AuthHandler {
	return &AuthHandler{jwtManager: jwtMgr, passcode: passcode, revocations: revocations}
}

// CreateSession issues a token for the local user once the passcode matches.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.passcode.Check(req.Passcode) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid passcode"})
		return
	}

	token, err := h.jwtManager.Generate(models.SelfID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	exp, err := h.jwtManager.Expiry(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, dto.SessionResponse{Token: token, ExpiresAt: exp})
}

// DeleteSession revokes the caller's token until it would have expired.
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	rawToken := c.GetString(middleware.TokenKey)

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := h.revocations.Revoke(c.Request.Context(), rawToken, time.Until(exp)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke token"})
		return
	}

	c.Status(http.StatusNoContent)
}
