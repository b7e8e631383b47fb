// Package access implements role-based section visibility and route gating.
// All decisions come from one static policy table so that every role-gated
// choice in the system (menus, REST endpoints, landing redirects) is
// answered the same way. Unknown roles and unknown routes always resolve to
// the conservative result: empty set, denied, login route. Lookups never
// return an error — an authorization check runs on every navigation and
// must not be able to fail.
package access

// Role is one of the three fixed user categories.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Section is a named functional area gating menu entries and routes.
type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionSetup     Section = "setup"
	SectionSupplier  Section = "supplier"
	SectionProducts  Section = "products"
	SectionCategory  Section = "category"
	SectionCustomers Section = "customers"
	SectionSales     Section = "sales"
	SectionPurchase  Section = "purchase"
)

// Route is a navigable SPA path.
type Route string

const (
	RouteLogin             Route = "/login"
	RouteDashboardHome     Route = "/dashboard"
	RouteSalesDashboard    Route = "/dashboard/sales"
	RouteCustomerDashboard Route = "/dashboard/customers"
	RouteSalesRecord       Route = "/dashboard/salesrecord"
	RouteSalesReport       Route = "/dashboard/salesreport"
	RoutePurchase          Route = "/dashboard/purchase"
	RouteProducts          Route = "/dashboard/products"
	RouteSuppliers         Route = "/dashboard/suppliers"
	RouteCategory          Route = "/dashboard/category"
	RouteSubcategory       Route = "/dashboard/subcategory"
	RouteSettingsRoles     Route = "/dashboard/settings/roles"
	RouteSettingsCategory  Route = "/dashboard/settings/category"
	RouteSettingsShops     Route = "/dashboard/settings/shops"
	RouteSettingsEmployees Route = "/dashboard/settings/employees"
)

// Session is the authenticated user as far as authorization is concerned.
// It is built from the JWT claims per request — there is no process-wide
// current user.
type Session struct {
	Role Role
	Name string
}

// policy is the single canonical role → sections table. The mapping is total
// over the known roles and fixed for the lifetime of the process.
var policy = map[Role][]Section{
	RoleAdmin: {
		SectionDashboard, SectionSetup, SectionSupplier, SectionProducts,
		SectionCategory, SectionCustomers, SectionSales, SectionPurchase,
	},
	RoleManager: {SectionSales, SectionCustomers},
	RoleStaff:   {SectionCustomers, SectionSetup},
}

// routeSections maps each navigable route to its owning section. Routes not
// present here are denied for every role.
var routeSections = map[Route]Section{
	RouteDashboardHome:     SectionDashboard,
	RouteSalesDashboard:    SectionSales,
	RouteSalesRecord:       SectionSales,
	RouteSalesReport:       SectionSales,
	RouteCustomerDashboard: SectionCustomers,
	RoutePurchase:          SectionPurchase,
	RouteProducts:          SectionProducts,
	RouteSuppliers:         SectionSupplier,
	RouteCategory:          SectionCategory,
	RouteSubcategory:       SectionCategory,
	RouteSettingsRoles:     SectionSetup,
	RouteSettingsCategory:  SectionSetup,
	RouteSettingsShops:     SectionSetup,
	RouteSettingsEmployees: SectionSetup,
}

// landing is the post-login route per role.
var landing = map[Role]Route{
	RoleAdmin:   RouteDashboardHome,
	RoleManager: RouteSalesDashboard,
	RoleStaff:   RouteCustomerDashboard,
}

// VisibleSections returns the set of sections the role may see. A role absent
// from the policy table yields an empty set.
func VisibleSections(role Role) map[Section]bool {
	sections := policy[role]
	set := make(map[Section]bool, len(sections))
	for _, s := range sections {
		set[s] = true
	}
	return set
}

// HasSection reports whether the role may see the given section.
func HasSection(role Role, section Section) bool {
	for _, s := range policy[role] {
		if s == section {
			return true
		}
	}
	return false
}

// IsRouteAllowed reports whether the role may navigate to the route.
// Routes with no section mapping are denied.
func IsRouteAllowed(role Role, route Route) bool {
	section, ok := routeSections[route]
	if !ok {
		return false
	}
	return HasSection(role, section)
}

// LandingRoute returns the route a freshly logged-in user of the role should
// be sent to. Unknown roles go back to the login screen.
func LandingRoute(role Role) Route {
	r, ok := landing[role]
	if !ok {
		return RouteLogin
	}
	return r
}

// ValidRole reports whether s names one of the three known roles.
func ValidRole(s string) bool {
	_, ok := policy[Role(s)]
	return ok
}

// Roles returns the known roles. Used by user management to validate
// role assignment.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleStaff}
}

// Sections returns every known section in menu order.
func Sections() []Section {
	return []Section{
		SectionDashboard, SectionSetup, SectionSupplier, SectionProducts,
		SectionCategory, SectionCustomers, SectionSales, SectionPurchase,
	}
}
