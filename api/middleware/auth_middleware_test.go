package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]entity.User, error) {
	out := make([]entity.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserRepo) RecordFailedLogin(_ context.Context, _ uuid.UUID, _ int, _ time.Time) error {
	return nil
}

func (f *fakeUserRepo) ResetLoginState(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

func testJWTManager() *utils.JWTManager {
	return &utils.JWTManager{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		Issuer:        "sitepass",
		Audience:      "sitepass",
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, role entity.UserRole, status entity.UserStatus) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:     uuid.New(),
		Email:  uuid.NewString() + "@example.com",
		Role:   role,
		Status: status,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newEchoContext(t *testing.T, token string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func requireHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, want, httpErr.Code)
}

func TestRequireAuthSetsPrincipal(t *testing.T) {
	repo := newFakeUserRepo()
	jwt := testJWTManager()
	user := seedUser(t, repo, entity.UserRoleReceptionist, entity.UserStatusActive)
	token, _, err := jwt.IssueAccessToken(user.ID.String(), string(user.Role), user.Email)
	require.NoError(t, err)

	mw := AuthMiddleware{JWT: jwt, Users: repo}
	c := newEchoContext(t, token)
	called := false
	require.NoError(t, mw.RequireAuth(okHandler(&called))(c))
	require.True(t, called)

	principal, ok := PrincipalFromContext(c)
	require.True(t, ok)
	require.Equal(t, user.ID, principal.ID)
	require.Equal(t, user.Role, principal.Role)
	require.Equal(t, user.Email, principal.Email)
}

func TestRequireAuthRejectsDeactivatedUser(t *testing.T) {
	repo := newFakeUserRepo()
	jwt := testJWTManager()
	mw := AuthMiddleware{JWT: jwt, Users: repo}

	for _, status := range []entity.UserStatus{entity.UserStatusInactive, entity.UserStatusSuspended} {
		user := seedUser(t, repo, entity.UserRoleAdmin, status)
		token, _, err := jwt.IssueAccessToken(user.ID.String(), string(user.Role), user.Email)
		require.NoError(t, err)

		called := false
		err = mw.RequireAuth(okHandler(&called))(newEchoContext(t, token))
		requireHTTPStatus(t, err, http.StatusUnauthorized)
		require.False(t, called)
	}
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	repo := newFakeUserRepo()
	jwt := testJWTManager()
	user := seedUser(t, repo, entity.UserRoleAdmin, entity.UserStatusActive)

	otherManager := testJWTManager()
	otherManager.AccessSecret = []byte("some-other-secret")
	foreign, _, err := otherManager.IssueAccessToken(user.ID.String(), string(user.Role), user.Email)
	require.NoError(t, err)

	mw := AuthMiddleware{JWT: jwt, Users: repo}

	cases := map[string]string{
		"missing":      "",
		"garbage":      "not-a-jwt",
		"wrong secret": foreign,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			err := mw.RequireAuth(okHandler(&called))(newEchoContext(t, token))
			requireHTTPStatus(t, err, http.StatusUnauthorized)
			require.False(t, called)
		})
	}
}

func TestRequireAuthRejectsUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	jwt := testJWTManager()
	token, _, err := jwt.IssueAccessToken(uuid.NewString(), string(entity.UserRoleAdmin), "ghost@example.com")
	require.NoError(t, err)

	mw := AuthMiddleware{JWT: jwt, Users: repo}
	called := false
	err = mw.RequireAuth(okHandler(&called))(newEchoContext(t, token))
	requireHTTPStatus(t, err, http.StatusUnauthorized)
	require.False(t, called)
}

func TestRequireRole(t *testing.T) {
	guard := RequireRole(entity.UserRoleAdmin, entity.UserRoleSecurityGuard)

	t.Run("allowed role passes", func(t *testing.T) {
		c := newEchoContext(t, "")
		SetPrincipal(c, Principal{ID: uuid.New(), Role: entity.UserRoleSecurityGuard})
		called := false
		require.NoError(t, guard(okHandler(&called))(c))
		require.True(t, called)
	})

	t.Run("other role forbidden", func(t *testing.T) {
		c := newEchoContext(t, "")
		SetPrincipal(c, Principal{ID: uuid.New(), Role: entity.UserRoleReceptionist})
		called := false
		err := guard(okHandler(&called))(c)
		requireHTTPStatus(t, err, http.StatusForbidden)
		require.False(t, called)
	})

	t.Run("no principal unauthorized", func(t *testing.T) {
		called := false
		err := guard(okHandler(&called))(newEchoContext(t, ""))
		requireHTTPStatus(t, err, http.StatusUnauthorized)
		require.False(t, called)
	})
}

func TestRequireSelfOrAdmin(t *testing.T) {
	ownerID := uuid.New()
	mw := RequireSelfOrAdmin("id")

	newParamContext := func(principal Principal, param string) echo.Context {
		c := newEchoContext(t, "")
		c.SetParamNames("id")
		c.SetParamValues(param)
		SetPrincipal(c, principal)
		return c
	}

	t.Run("admin reaches any account", func(t *testing.T) {
		c := newParamContext(Principal{ID: uuid.New(), Role: entity.UserRoleAdmin}, ownerID.String())
		called := false
		require.NoError(t, mw(okHandler(&called))(c))
		require.True(t, called)
	})

	t.Run("owner reaches own account", func(t *testing.T) {
		c := newParamContext(Principal{ID: ownerID, Role: entity.UserRoleReceptionist}, ownerID.String())
		called := false
		require.NoError(t, mw(okHandler(&called))(c))
		require.True(t, called)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		c := newParamContext(Principal{ID: uuid.New(), Role: entity.UserRoleReceptionist}, ownerID.String())
		called := false
		err := mw(okHandler(&called))(c)
		requireHTTPStatus(t, err, http.StatusForbidden)
		require.False(t, called)
	})

	t.Run("no principal unauthorized", func(t *testing.T) {
		c := newEchoContext(t, "")
		c.SetParamNames("id")
		c.SetParamValues(ownerID.String())
		called := false
		err := mw(okHandler(&called))(c)
		requireHTTPStatus(t, err, http.StatusUnauthorized)
		require.False(t, called)
	})
}
