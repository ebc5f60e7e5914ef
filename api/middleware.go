package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request after the handler ran.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("http method=%s path=%s status=%d duration=%s",
			c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
