package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Duke0404/react-reader-backend/internal/config"
)

// CookieName carries the token for browser clients.
const CookieName = "token"

// SetTokenCookie writes the HTTP-only token cookie.
func SetTokenCookie(c *gin.Context, token string, maxAge time.Duration, cfg config.Auth) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: cfg.SameSite(),
	})
}

// ClearTokenCookie expires the token cookie on the client.
func ClearTokenCookie(c *gin.Context, cfg config.Auth) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: cfg.SameSite(),
	})
}
