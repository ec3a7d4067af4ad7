package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/service"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/response"
)

// OverviewHandler selection statistics endpoints
type OverviewHandler struct {
	overviewSvc service.OverviewService
}

// NewOverviewHandler creates an OverviewHandler.
func NewOverviewHandler(overviewSvc service.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviewSvc: overviewSvc}
}

// GetOverview most/least/unselected candidates
// GET /api/v1/overview
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	response.OK(c, h.overviewSvc.Summary(c.Request.Context()))
}

// ExportOverview overview and applicant table as .xlsx
// GET /api/v1/overview/export
func (h *OverviewHandler) ExportOverview(c *gin.Context) {
	buf, filename, err := h.overviewSvc.Export(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 21001, "failed to generate Excel file")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
