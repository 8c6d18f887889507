package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebSocketAuth reads the token from the query string, since browsers cannot
// set headers on a websocket handshake.
func (a *Authenticator) WebSocketAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = BearerToken(c)
		}
		if token == "" || !a.authenticate(c, token) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
