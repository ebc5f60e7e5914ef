package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/gin-gonic/gin"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindIllegalState:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	code := domain.KindOf(err).String()
	switch {
	case status == http.StatusGatewayTimeout:
		log.Printf("request timed out method=%s path=%s err=%v", c.Request.Method, c.Request.URL.Path, err)
		code = "deadline_exceeded"
	case status >= http.StatusInternalServerError:
		log.Printf("request failed method=%s path=%s err=%v", c.Request.Method, c.Request.URL.Path, err)
		code = "internal"
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": domain.KindInvalidArgument.String()})
}
