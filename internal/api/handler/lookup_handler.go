package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/lookup"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/service"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/response"
)

// LookupHandler display-name endpoints
type LookupHandler struct {
	lookupSvc service.LookupService
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(lookupSvc service.LookupService) *LookupHandler {
	return &LookupHandler{lookupSvc: lookupSvc}
}

// Resolve display name for one id. Unknown ids resolve to themselves.
// GET /api/v1/lookup/:kind/:id
func (h *LookupHandler) Resolve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.lookupSvc.Resolve(c.Request.Context(), c.Param("kind"), id)
	if err != nil {
		if errors.Is(err, lookup.ErrUnknownKind) {
			response.BadRequest(c, 14001, "unknown lookup kind")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Refresh forces a remote refresh of users and courses.
// POST /api/v1/lookup/refresh
func (h *LookupHandler) Refresh(c *gin.Context) {
	result, err := h.lookupSvc.Refresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrLookupRefreshFailed) {
			response.ErrorWithDetails(c, http.StatusBadGateway, 14002, "lookup refresh failed", result)
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
