package dto

// ── Request DTOs ──────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=3"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

// LoginResponse carries everything the SPA needs to persist its session and
// render the role-gated shell in one round trip.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
	LandingRoute string       `json:"landing_route"`
	Sections     []string     `json:"sections"`
}

type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Email    *string `json:"email,omitempty"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
}

// RouteCheckResponse answers a single navigation query. Unknown routes come
// back denied.
type RouteCheckResponse struct {
	Route   string `json:"route"`
	Allowed bool   `json:"allowed"`
}

// MenuResponse is the access-control view for the authenticated role.
type MenuResponse struct {
	Role         string   `json:"role"`
	Sections     []string `json:"sections"`
	LandingRoute string   `json:"landing_route"`
}
