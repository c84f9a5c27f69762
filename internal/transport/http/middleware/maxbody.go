package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-gin-todo-api/internal/transport/http/response"
)

// MaxBodyBytes caps the request body; reads past n fail and binding reports
// the error as a 400.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeTooLarge, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
