package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ayfri/ETL-1/internal/logger"
)

// Recovery recovers from panics in handlers and returns a 500 response
func Recovery() gin.HandlerFunc {
	log := logger.ForComponent("http")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic":      r,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(RequestIDKey),
				}).Error("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
