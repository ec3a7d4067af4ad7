package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/response"
)

// MustGetUserID reads the user_id set by JWTAuth.
// When it is missing a 401 has been written and the caller should return.
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, response.CodeUnauthenticated, "unauthenticated")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, response.CodeUnauthenticated, "unauthenticated")
		return 0, false
	}
	return id, true
}

// parseIDParam parses a positive int64 path parameter or writes a 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeInvalidParams, "invalid "+name)
		return 0, false
	}
	return id, true
}

// bindJSON binds the body into req, answering 413 for oversized bodies and
// 400 for everything else.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "request body too large")
			return false
		}
		response.BadRequest(c, response.CodeInvalidParams, "invalid parameters")
		return false
	}
	return true
}
