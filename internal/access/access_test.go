package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleSectionsAdmin(t *testing.T) {
	set := VisibleSections(RoleAdmin)

	for _, s := range []Section{
		SectionDashboard, SectionSetup, SectionSupplier, SectionProducts,
		SectionCategory, SectionCustomers, SectionSales,
	} {
		assert.True(t, set[s], "admin should see %s", s)
	}
}

func TestVisibleSectionsManager(t *testing.T) {
	set := VisibleSections(RoleManager)

	assert.Len(t, set, 2)
	assert.True(t, set[SectionSales])
	assert.True(t, set[SectionCustomers])
	assert.False(t, set[SectionProducts])
}

func TestVisibleSectionsStaff(t *testing.T) {
	set := VisibleSections(RoleStaff)

	assert.Len(t, set, 2)
	assert.True(t, set[SectionCustomers])
	assert.True(t, set[SectionSetup])
	assert.False(t, set[SectionSales])
}

func TestVisibleSectionsUnknownRole(t *testing.T) {
	assert.Empty(t, VisibleSections(Role("superuser")))
	assert.Empty(t, VisibleSections(Role("")))
}

func TestIsRouteAllowed(t *testing.T) {
	cases := []struct {
		name  string
		role  Role
		route Route
		want  bool
	}{
		{"admin products", RoleAdmin, RouteProducts, true},
		{"admin purchase", RoleAdmin, RoutePurchase, true},
		{"manager sales", RoleManager, RouteSalesDashboard, true},
		{"manager customers", RoleManager, RouteCustomerDashboard, true},
		{"manager denied products", RoleManager, RouteProducts, false},
		{"manager denied suppliers", RoleManager, RouteSuppliers, false},
		{"staff settings", RoleStaff, RouteSettingsEmployees, true},
		{"staff denied sales", RoleStaff, RouteSalesDashboard, false},
		{"unknown role denied everywhere", Role("ghost"), RouteCustomerDashboard, false},
		{"unknown route denied for admin", RoleAdmin, Route("/dashboard/reports/secret"), false},
		{"login route has no section", RoleAdmin, RouteLogin, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRouteAllowed(tc.role, tc.route))
		})
	}
}

// Every route a role may reach must belong to a section that role can see —
// the route table can never grant more than the menu shows.
func TestRouteTableConsistentWithPolicy(t *testing.T) {
	for _, role := range Roles() {
		visible := VisibleSections(role)
		for route, section := range routeSections {
			if IsRouteAllowed(role, route) {
				assert.True(t, visible[section],
					"role %s allowed on %s but cannot see section %s", role, route, section)
			}
		}
	}
}

func TestLandingRoute(t *testing.T) {
	assert.Equal(t, RouteDashboardHome, LandingRoute(RoleAdmin))
	assert.Equal(t, RouteSalesDashboard, LandingRoute(RoleManager))
	assert.Equal(t, RouteCustomerDashboard, LandingRoute(RoleStaff))
	assert.Equal(t, RouteLogin, LandingRoute(Role("nobody")))
}

// The landing route of every role must itself be reachable by that role.
func TestLandingRouteIsAllowed(t *testing.T) {
	for _, role := range Roles() {
		require.True(t, IsRouteAllowed(role, LandingRoute(role)),
			"role %s cannot reach its own landing route", role)
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("admin"))
	assert.True(t, ValidRole("manager"))
	assert.True(t, ValidRole("staff"))
	assert.False(t, ValidRole("administrator"))
	assert.False(t, ValidRole(""))
}
