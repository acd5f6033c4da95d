package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolio-hub/internal/session"
)

const (
	requestIDKey     = "request_id"
	sessionClaimsKey = "session_claims"
)

// requestIDMiddleware asegura un X-Request-Id estable por request: respeta el
// header entrante o genera uno nuevo, y lo refleja en la respuesta.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-Id", rid)
		c.Next()
	}
}

// RequireSession protege rutas consultando el session guard en cada request.
// Un Deny por token ausente/corrupto/expirado responde 401 (con el purgado de
// token que el guard ya hizo como efecto secundario); rol insuficiente
// responde 403 sin purgar.
func RequireSession(guard *session.Guard, requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := guard.CanEnter(requireAdmin)
		if !d.Allowed {
			status := http.StatusUnauthorized
			if d.Reason == session.DenyNotAuthorized {
				status = http.StatusForbidden
			}
			c.JSON(status, gin.H{"error": string(d.Reason)})
			c.Abort()
			return
		}
		c.Set(sessionClaimsKey, d.Claims)
		c.Next()
	}
}
