package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chat-local/internal/session"
	"github.com/thereayou/chat-local/pkg/auth"
)

const (
	SenderIDKey = "senderID"
	TokenKey    = "token"
)

// AuthMiddleware requires a valid, unrevoked bearer token.
func AuthMiddleware(jwtManager *auth.JWTManager, revocations session.Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}

		authorize(c, jwtManager, revocations, token)
	}
}

// WSAuthMiddleware also accepts the token as a query parameter, since
// browsers cannot set headers on a WebSocket handshake.
func WSAuthMiddleware(jwtManager *auth.JWTManager, revocations session.Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = auth.ExtractTokenFromHeader(c.Request)
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		authorize(c, jwtManager, revocations, token)
	}
}

func authorize(c *gin.Context, jwtManager *auth.JWTManager, revocations session.Revocations, token string) {
	revoked, err := revocations.IsRevoked(c.Request.Context(), token)
	if err != nil || revoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is revoked"})
		c.Abort()
		return
	}

	senderID, err := jwtManager.SubjectID(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return
	}

	c.Set(SenderIDKey, senderID)
	c.Set(TokenKey, token)
	c.Next()
}
