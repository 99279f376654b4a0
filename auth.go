package main

import (
	"log/slog"
	"strings"

	"carz/pkg/identity"
	"carz/pkg/layout"

	"github.com/gin-gonic/gin"
)

const tokenCookie = "carz_token"

// identityMiddleware resolves the visitor's role from a bearer token or the
// token cookie. Pages are public, so a missing or bad token means guest.
func identityMiddleware(secret []byte, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("role", layout.Guest)
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString, _ = c.Cookie(tokenCookie)
		}
		if tokenString == "" {
			c.Next()
			return
		}
		id, err := identity.Parse(secret, tokenString)
		if err != nil {
			logger.Debug("ignoring identity token", "err", err)
			c.Next()
			return
		}
		c.Set("username", id.Username)
		c.Set("role", id.Role)
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) < 8 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func roleFromContext(c *gin.Context) layout.Role {
	v, _ := c.Get("role")
	r, _ := v.(layout.Role)
	return r
}
