package handler

import (
	"net/http"

	"github.com/sajjadaliuos1/Pharmasys/internal/apierror"
	"github.com/sajjadaliuos1/Pharmasys/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary godoc
// @Summary      Landing-screen counters
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.DashboardSummaryResponse
// @Router       /v1/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build dashboard summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
