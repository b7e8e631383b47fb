package service_test

import (
	"context"
	"testing"

	"github.com/sajjadaliuos1/Pharmasys/internal/config"
	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"
	"github.com/sajjadaliuos1/Pharmasys/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubUserRepo is an in-memory UserRepository for testing.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var list []model.User
	for _, u := range r.users {
		if u.Active {
			list = append(list, *u)
		}
	}
	return list, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var list []model.User
	for _, u := range r.users {
		list = append(list, *u)
	}
	return list, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = true
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func buildAuthSvc() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo
}

func seedUser(repo *stubUserRepo, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	repo.users[u.ID] = u
	return u
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestLogin_AdminSeesEverySection(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "admin@shop.local", "secret", "admin")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin@shop.local",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "/dashboard", resp.LandingRoute)
	assert.Equal(t, []string{
		"dashboard", "setup", "supplier", "products",
		"category", "customers", "sales", "purchase",
	}, resp.Sections)
}

func TestLogin_RoleLandingRoutes(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "manager@shop.local", "secret", "manager")
	seedUser(repo, "staff@shop.local", "secret", "staff")

	manager, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "manager@shop.local", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/sales", manager.LandingRoute)
	assert.ElementsMatch(t, []string{"sales", "customers"}, manager.Sections)

	staff, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "staff@shop.local", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/customers", staff.LandingRoute)
	assert.ElementsMatch(t, []string{"customers", "setup"}, staff.Sections)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "admin@shop.local", "secret", "admin")

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin@shop.local",
		Password: "wrong",
	})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(repo, "gone@shop.local", "secret", "staff")
	u.Active = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "gone@shop.local",
		Password: "secret",
	})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUser(repo, "admin@shop.local", "secret", "admin")

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin@shop.local", Password: "secret",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "admin@shop.local", refreshed.User.Username)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorContains(t, err, "invalid or expired")
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(repo, "admin@shop.local", "secret", "admin")

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin@shop.local", Password: "secret",
	})
	require.NoError(t, err)

	u.Active = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorContains(t, err, "not found or inactive")
}

func TestCreateUser_UnknownRole(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "x@shop.local",
		Name:     "X",
		Password: "secret",
		Role:     "superuser",
	})
	assert.ErrorContains(t, err, "unknown role")
}

func TestDeactivateReactivateUser(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUser(repo, "temp@shop.local", "secret", "staff")

	require.NoError(t, svc.DeactivateUser(context.Background(), u.ID))
	assert.False(t, u.Active)

	require.NoError(t, svc.ReactivateUser(context.Background(), u.ID))
	assert.True(t, u.Active)
}
