package handler

import (
	"net/http"

	"github.com/sajjadaliuos1/Pharmasys/internal/access"
	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/middleware"

	"github.com/gin-gonic/gin"
)

// AccessHandler serves the authenticated role's navigation view.
type AccessHandler struct{}

func NewAccessHandler() *AccessHandler { return &AccessHandler{} }

// Menu godoc
// @Summary      Visible sections and landing route for the caller's role
// @Tags         access
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MenuResponse
// @Router       /v1/access/menu [get]
func (h *AccessHandler) Menu(c *gin.Context) {
	claims := middleware.GetClaims(c)
	role := access.Role(claims.Role)

	set := access.VisibleSections(role)
	sections := make([]string, 0, len(set))
	for _, s := range access.Sections() {
		if set[s] {
			sections = append(sections, string(s))
		}
	}

	c.JSON(http.StatusOK, dto.MenuResponse{
		Role:         claims.Role,
		Sections:     sections,
		LandingRoute: string(access.LandingRoute(role)),
	})
}

// CheckRoute godoc
// @Summary      Whether the caller's role may navigate to a route
// @Tags         access
// @Produce      json
// @Param        path query string true "SPA route path"
// @Security     BearerAuth
// @Success      200 {object} dto.RouteCheckResponse
// @Router       /v1/access/route [get]
func (h *AccessHandler) CheckRoute(c *gin.Context) {
	claims := middleware.GetClaims(c)
	path := c.Query("path")

	c.JSON(http.StatusOK, dto.RouteCheckResponse{
		Route:   path,
		Allowed: access.IsRouteAllowed(access.Role(claims.Role), access.Route(path)),
	})
}
