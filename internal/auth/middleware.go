package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyAccountID holds the authenticated account id.
const ContextKeyAccountID = "auth_account_id"

// Middleware guards routes that need an authenticated account.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireToken rejects requests without a valid token and stores the
// account id in the context otherwise.
func (m *Middleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c.Request)
		if token == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		accountID, err := m.tokens.Verify(token)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "invalid_token", "Invalid token")
			return
		}

		c.Set(ContextKeyAccountID, accountID)
		c.Next()
	}
}

// ExtractToken reads the bearer token, falling back to the cookie.
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// GetAccountID retrieves the authenticated account's id from the context.
// Returns 0 outside RequireToken.
func GetAccountID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyAccountID); exists {
		if accountID, ok := id.(uint); ok {
			return accountID
		}
	}
	return 0
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"message": message,
		"code":    code,
	})
}
