package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"halalfood-backend/internal/usecase"
)

func statusOf(err error) (int, string) {
	var (
		badReq   usecase.ErrBadRequest
		unauth   usecase.ErrUnauthorized
		forbid   usecase.ErrForbidden
		notFound usecase.ErrNotFound
		conflict usecase.ErrConflict
		gateway  usecase.ErrGateway
	)
	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest, badReq.Error()
	case errors.As(err, &unauth):
		return http.StatusUnauthorized, "Unauthorized access"
	case errors.As(err, &forbid):
		return http.StatusForbidden, forbid.Error()
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Error()
	case errors.As(err, &gateway):
		return http.StatusBadGateway, "payment gateway unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// fail writes err as a JSON error body and aborts the chain. Server-side
// failures are logged; their detail never reaches the client.
func (s *Server) fail(c *gin.Context, err error) {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "status", status, "err", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": true, "message": msg})
}
