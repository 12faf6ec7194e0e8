package middleware

import (
	"log"
	"net/http"

	apperrors "barstack/internal/errors"

	"github.com/gin-gonic/gin"
)

// RequireDatasets rejects requests while datasets are unavailable. loadErr reports the
// initialization failure; nil means the registry is ready.
func RequireDatasets(loadErr func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := loadErr(); err != nil {
			log.Printf("[RequireDatasets] %s %s refused: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Chart failed to load",
				"code":  apperrors.GetCode(err),
			})
			return
		}
		c.Next()
	}
}
