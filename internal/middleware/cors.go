package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Stranger261/hospital-er-api/config"
)

// CORS applies the configured cross-origin policy. An empty origin list
// allows everything, which suits local development.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	allowedMethods := strings.Join(defaulted(cfg.AllowedMethods, []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}), ", ")
	allowedHeaders := strings.Join(defaulted(cfg.AllowedHeaders, []string{
		"Origin", "Content-Type", "Accept", "Authorization", HeaderXRequestID,
	}), ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := "*"
		if len(cfg.AllowedOrigins) > 0 {
			allowed = ""
			for _, o := range cfg.AllowedOrigins {
				if o == "*" || o == origin {
					allowed = origin
					break
				}
			}
		}
		if allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Methods", allowedMethods)
			c.Header("Access-Control-Allow-Headers", allowedHeaders)
			c.Header("Access-Control-Expose-Headers", HeaderXRequestID)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func defaulted(values, fallback []string) []string {
	if len(values) > 0 {
		return values
	}
	return fallback
}
