package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"contacts-api/internal/service"
)

// RateLimitMiddleware aplica el limiter a la ruta. La clave es el tenant
// autenticado (o la IP si no hay claims) mas metodo y ruta, asi cada
// endpoint cuenta por separado.
func RateLimitMiddleware(limiter service.RequestLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if userID, ok := CurrentUserID(c); ok {
			caller = strconv.FormatInt(userID, 10)
		}
		key := c.Request.Method + ":" + c.FullPath() + ":" + caller

		if !limiter.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
