package middlewares

import (
	"HaloBackend/apperrors"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ContextUID is the gin context key holding the verified caller uid.
const ContextUID = "uid"

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Authenticate verifies the bearer token when one is sent. With enforce set, a
// missing or invalid token ends the request with 401; otherwise the failure is
// logged and the request continues anonymously.
func Authenticate(verifier TokenVerifier, enforce bool, logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "auth")
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if enforce {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
				return
			}
			c.Next()
			return
		}

		uid, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if enforce {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": apperrors.Message(err)})
				return
			}
			log.WithError(err).WithField("path", c.FullPath()).Warn("ignoring invalid token")
			c.Next()
			return
		}

		c.Set(ContextUID, uid)
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
