package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mori5600/yarukoto/internal/config"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// OwnerKey is the gin context key holding the authenticated owner id.
const OwnerKey = "owner"

const authCookie = "auth_token"

// RequestID tags every request with an id carried in the context logger and
// the X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Auth resolves the caller to an owner id from a JWT, taken from the
// Authorization header or the auth cookie. redirectToLogin selects the
// browser-page behavior (302 to the login URL) over the fragment behavior
// (401).
func Auth(redirectToLogin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			if cookie, err := c.Cookie(authCookie); err == nil {
				tokenStr = cookie
			}
		}
		if tokenStr == "" {
			logger.Debug(ctx, "Missing credentials")
			reject(c, redirectToLogin)
			return
		}

		secret := config.Get().JWTSecret
		if secret == "" {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			logger.Debug(ctx, "JWT rejected", "error", err)
			reject(c, redirectToLogin)
			return
		}

		c.Set(OwnerKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

func reject(c *gin.Context, redirectToLogin bool) {
	if redirectToLogin {
		c.Redirect(http.StatusFound, config.Get().LoginURL)
		c.Abort()
		return
	}
	c.AbortWithStatus(http.StatusUnauthorized)
}
