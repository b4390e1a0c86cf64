package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brunodmn/escola-admin-api/internal/models"
)

func doRequest(t *testing.T, r http.Handler, token string, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRBACAllowsRole(t *testing.T) {
	r := protectedRouter(t, RequireRoles(models.RoleAdmin))

	w := doRequest(t, r, signToken(t, testSecret, 1, models.RoleAdmin), "/protected/2")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACDeniesRole(t *testing.T) {
	r := protectedRouter(t, RequireRoles(models.RoleAdmin))

	w := doRequest(t, r, signToken(t, testSecret, 5, models.RoleProfessor), "/protected/2")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Acesso negado."}`, w.Body.String())
}

func TestRBACSelfMatchesIDParam(t *testing.T) {
	r := protectedRouter(t, RBAC(string(models.RoleAdmin), "SELF"))

	w := doRequest(t, r, signToken(t, testSecret, 5, models.RoleProfessor), "/protected/5")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, signToken(t, testSecret, 5, models.RoleProfessor), "/protected/6")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
