package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MultipartOverhead is allowed on top of the file limit for boundaries and
// part headers
const MultipartOverhead = 1 << 20

// LimitBody caps the request body at maxBytes plus MultipartOverhead.
// A non-positive maxBytes leaves the body untouched.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+MultipartOverhead)
		}
		c.Next()
	}
}

// MaxBody is LimitBody for net/http routers
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				if r.ContentLength > maxBytes+MultipartOverhead {
					log.Printf("[MaxBody] Content-Length %d over limit for %s", r.ContentLength, r.URL.Path)
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes+MultipartOverhead)
			}
			next.ServeHTTP(w, r)
		})
	}
}
