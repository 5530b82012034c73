package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contacts-api/internal/service"
)

// RouterDeps agrupa lo que el router necesita para armar las rutas.
type RouterDeps struct {
	Logger         *zap.Logger
	JWTService     *service.JWTService
	UserHandler    *UserHandler
	ContactHandler *ContactHandler
	HealthHandler  *HealthHandler
	// CreateLimiter aplica al POST de contactos (politica estricta);
	// ContactLimiter al resto de rutas de contactos.
	CreateLimiter  service.RequestLimiter
	ContactLimiter service.RequestLimiter
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(deps.Logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome! This is the contacts API"})
	})

	api := r.Group("/api")
	api.GET("/healthchecker", deps.HealthHandler.Check)

	auth := api.Group("/auth")
	auth.POST("/signup", deps.UserHandler.Signup)
	auth.POST("/login", deps.UserHandler.Login)
	auth.POST("/refresh", deps.UserHandler.RefreshToken)
	auth.POST("/logout", deps.UserHandler.Logout)
	auth.GET("/confirmed_email/:token", deps.UserHandler.ConfirmEmail)

	users := api.Group("/users", JWTAuthMiddleware(deps.JWTService))
	users.GET("/me", deps.UserHandler.Me)
	users.PATCH("/avatar", deps.UserHandler.UpdateAvatar)

	contacts := api.Group("/contacts", JWTAuthMiddleware(deps.JWTService))
	contacts.POST("", RateLimitMiddleware(deps.CreateLimiter), deps.ContactHandler.Create)
	contacts.GET("", RateLimitMiddleware(deps.ContactLimiter), deps.ContactHandler.List)
	contacts.GET("/birthdays", RateLimitMiddleware(deps.ContactLimiter), deps.ContactHandler.UpcomingBirthdays)
	contacts.GET("/:id", RateLimitMiddleware(deps.ContactLimiter), deps.ContactHandler.Get)
	contacts.PUT("/:id", RateLimitMiddleware(deps.ContactLimiter), deps.ContactHandler.Update)
	contacts.DELETE("/:id", RateLimitMiddleware(deps.ContactLimiter), deps.ContactHandler.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
