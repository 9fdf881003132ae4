package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/example/tuuze/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Carl Customer",
		"email":    "carl@example.com",
		"password": "pass1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	token := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "customer", user["role"])
	_, hasPassword := user["password"]
	assert.False(t, hasPassword, "password hash must never be serialized")

	// The jwt cookie is set alongside the token in the body.
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "jwt", cookies[0].Name)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "carl@example.com",
		"password": "pass1234",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	user = body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "carl@example.com", user["email"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload := gin.H{"name": "A", "email": "a@example.com", "password": "pass1234"}
	w = env.do(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "already exists")
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Sneaky",
		"email":    "sneaky@example.com",
		"password": "pass1234",
		"role":     "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	user := decodeBody(t, w)["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "customer", user["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Carl Customer", "carl@example.com", models.RoleCustomer)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "carl@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "pass1234",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectRejectsInactiveUser(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "Carl Customer", "carl@example.com", models.RoleCustomer)

	user.Active = false
	require.NoError(t, env.mem.Users().Update(context.Background(), user))

	w := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "Carl Customer", "carl@example.com", models.RoleCustomer)

	w := env.do(t, http.MethodPatch, "/api/auth/update-password", token, gin.H{
		"currentPassword": "wrong",
		"newPassword":     "newpass123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPatch, "/api/auth/update-password", token, gin.H{
		"currentPassword": "pass1234",
		"newPassword":     "newpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "carl@example.com",
		"password": "newpass123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Carl Customer", "carl@example.com", models.RoleCustomer)

	w := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/forgot-password", "", gin.H{"email": "carl@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	resetToken := decodeBody(t, w)["resetToken"].(string)
	require.NotEmpty(t, resetToken)

	w = env.do(t, http.MethodPatch, "/api/auth/reset-password/bogus-token", "", gin.H{"password": "newpass123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/auth/reset-password/"+resetToken, "", gin.H{"password": "newpass123"})
	require.Equal(t, http.StatusOK, w.Code)

	// The token is single use.
	w = env.do(t, http.MethodPatch, "/api/auth/reset-password/"+resetToken, "", gin.H{"password": "again123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "carl@example.com",
		"password": "newpass123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
