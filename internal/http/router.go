package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-hub/internal/session"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	guard *session.Guard,
	allowOrigins []string,
	sessionH *SessionHandler,
	portfolioH *PortfolioHandler,
	adminH *AdminHandler,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(allowOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Superficie pública del portafolio.
	api := r.Group("/api")
	api.GET("/profile", portfolioH.GetProfile)
	api.GET("/projects", portfolioH.GetProjects)
	api.GET("/skills", portfolioH.GetSkills)

	sess := r.Group("/session")
	sess.POST("/login", sessionH.Login)
	sess.POST("/logout", sessionH.Logout)

	// Panel de administración, gateado por el session guard en cada request.
	admin := r.Group("/admin", RequireSession(guard, true))
	admin.POST("/reload", adminH.Reload)
	admin.POST("/projects", adminH.CreateProject)
	admin.PUT("/projects/:id", adminH.UpdateProject)
	admin.DELETE("/projects/:id", adminH.DeleteProject)
	admin.POST("/skills", adminH.CreateSkill)
	admin.PUT("/skills/:id", adminH.UpdateSkill)
	admin.DELETE("/skills/:id", adminH.DeleteSkill)

	return r
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cfg
}

// zapLoggerMiddleware loguea cada request con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
