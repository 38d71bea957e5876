package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Stranger261/hospital-er-api/pkg/httputil"
)

// SizeLimit rejects oversized request bodies. Face capture uploads are the
// largest legitimate payload, so the cap is generous.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBodyBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httputil.Response{
				Success: false,
				Error: &httputil.Error{
					Code:    http.StatusRequestEntityTooLarge,
					Message: "request body too large",
				},
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		c.Next()
	}
}
