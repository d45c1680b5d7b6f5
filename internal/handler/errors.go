package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"booking-api/internal/service"
)

// httpStatus maps a service status code onto the REST contract. Conflicts
// are reported as 400, matching what existing clients expect.
func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.AlreadyExists:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.NotFound:
		return http.StatusNotFound
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	if !ok {
		h.log.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	code := httpStatus(st.Code())
	if code == http.StatusInternalServerError {
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{"error": st.Message()}
	if vs := service.Violations(err); len(vs) > 0 {
		body["details"] = vs
	}
	c.JSON(code, body)
}

func badBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
