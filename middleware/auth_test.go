package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshmart/apperr"
	"freshmart/models"
	"freshmart/utils"
)

func callWithPrincipal(t *testing.T, mw func(http.Handler) http.Handler, principal *models.Principal) *httptest.ResponseRecorder {
	t.Helper()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if principal != nil {
		req = req.WithContext(context.WithValue(req.Context(), PrincipalContextKey, *principal))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoleNoPrincipal(t *testing.T) {
	rec := callWithPrincipal(t, RequireRole(models.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAdminTier(t *testing.T) {
	mw := RequireRole(models.RoleAdmin)

	rec := callWithPrincipal(t, mw, &models.Principal{Role: models.RoleAdmin})
	assert.Equal(t, http.StatusOK, rec.Code)

	// super_admin passes wherever admin is allowed
	rec = callWithPrincipal(t, mw, &models.Principal{Role: models.RoleSuperAdmin})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleSuperAdminOnly(t *testing.T) {
	mw := RequireRole(models.RoleSuperAdmin)

	rec := callWithPrincipal(t, mw, &models.Principal{Role: models.RoleAdmin})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = callWithPrincipal(t, mw, &models.Principal{Role: models.RoleSuperAdmin})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	token, err := bearerToken(req)
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	req.Header.Set("Authorization", "Basic abc")
	_, err = bearerToken(req)
	assert.Error(t, err)

	req.Header.Del("Authorization")
	_, err = bearerToken(req)
	assert.Error(t, err)
}

type stubAdminDirectory struct {
	admin *models.Admin
	err   error
}

func (s stubAdminDirectory) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return s.admin, s.err
}

type stubSessions struct {
	revoked     bool
	revokeCalls int
}

func (s *stubSessions) Revoke(ctx context.Context, uid string) error {
	s.revokeCalls++
	return nil
}

func (s *stubSessions) Revoked(ctx context.Context, uid string, issuedAt int64) (bool, error) {
	return s.revoked, nil
}

func callAdminAuth(t *testing.T, admins AdminDirectory, sessions *stubSessions) *httptest.ResponseRecorder {
	t.Helper()
	token, err := utils.GenerateJWT("uid1", "asha@example.com", "admin")
	require.NoError(t, err)

	handler := AdminAuth(admins, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuthResolvesPrincipal(t *testing.T) {
	sessions := &stubSessions{}
	admins := stubAdminDirectory{admin: &models.Admin{Email: "asha@example.com", Role: models.RoleAdmin}}

	rec := callAdminAuth(t, admins, sessions)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, sessions.revokeCalls)
}

func TestAdminAuthStoreFailureDoesNotRevoke(t *testing.T) {
	// a flaky database must not log every admin out
	sessions := &stubSessions{}
	admins := stubAdminDirectory{err: apperr.Internal(errors.New("connection reset"))}

	rec := callAdminAuth(t, admins, sessions)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, sessions.revokeCalls)
}

func TestAdminAuthUnknownAdminRevokes(t *testing.T) {
	sessions := &stubSessions{}
	admins := stubAdminDirectory{err: apperr.NotFound("admin not found")}

	rec := callAdminAuth(t, admins, sessions)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, sessions.revokeCalls)
}

func TestAdminAuthDisabledAdminRevokes(t *testing.T) {
	sessions := &stubSessions{}
	admins := stubAdminDirectory{admin: &models.Admin{Email: "asha@example.com", Role: models.RoleAdmin, Disabled: true}}

	rec := callAdminAuth(t, admins, sessions)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, sessions.revokeCalls)
}

func TestAdminAuthRevokedSession(t *testing.T) {
	sessions := &stubSessions{revoked: true}
	admins := stubAdminDirectory{admin: &models.Admin{Email: "asha@example.com", Role: models.RoleAdmin}}

	rec := callAdminAuth(t, admins, sessions)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, sessions.revokeCalls)
}
