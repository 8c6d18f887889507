package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-orders/utils"
)

const principalKey = "principal"

var (
	errMissingToken = errors.New("authorization header missing")
	errBadToken     = errors.New("invalid or expired token")
)

// Authenticator validates bearer tokens and puts the caller's principal on
// the gin context.
type Authenticator struct {
	Tokens  *utils.TokenIssuer
	Revoked *utils.RevocationList
}

func NewAuthenticator(tokens *utils.TokenIssuer, revoked *utils.RevocationList) *Authenticator {
	return &Authenticator{Tokens: tokens, Revoked: revoked}
}

// RequireAuth rejects requests without a valid token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errMissingToken)
			c.Abort()
			return
		}
		if !a.authenticate(c, token) {
			utils.RespondError(c, http.StatusUnauthorized, errBadToken)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token != "" && !a.authenticate(c, token) {
			utils.RespondError(c, http.StatusUnauthorized, errBadToken)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, token string) bool {
	if a.Revoked != nil && a.Revoked.IsRevoked(token) {
		return false
	}
	p, err := a.Tokens.Parse(token)
	if err != nil {
		return false
	}

	c.Set(principalKey, p)
	c.Set("user_id", p.UserID)
	c.Set("role", p.Role)
	ctx := c.Request.Context()
	entry := utils.LoggerFromContext(ctx).WithField("user_id", p.UserID)
	c.Request = c.Request.WithContext(utils.WithLogger(ctx, entry))
	return true
}

// BearerToken returns the token from the Authorization header, or "".
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// PrincipalFrom returns the authenticated caller, if any.
func PrincipalFrom(c *gin.Context) (utils.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return utils.Principal{}, false
	}
	p, ok := v.(utils.Principal)
	return p, ok
}
