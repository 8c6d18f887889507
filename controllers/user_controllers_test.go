package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-orders/controllers"
	"github.com/yeremiapane/restaurant-orders/models"
)

func registerPayload() map[string]interface{} {
	return map[string]interface{}{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"phone":    "5551234567",
		"password": "secret123",
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	s := setupServer(t, nil)

	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[controllers.AuthResponse](t, env.Data)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "Bearer", registered.Type)
	assert.Equal(t, models.RoleCustomer, registered.Role)
	assert.NotContains(t, w.Body.String(), "secret123")

	w, env = s.do(t, http.MethodPost, "/api/auth/register", "", registerPayload())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, env.Message, "email")

	for _, body := range []map[string]string{
		{"identifier": "jane@example.com", "password": "secret123"},
		{"email": "jane@example.com", "password": "secret123"},
		{"phone": "5551234567", "password": "secret123"},
	} {
		w, env = s.do(t, http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, registered.UserID, decode[controllers.AuthResponse](t, env.Data).UserID)
	}

	w, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "jane@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The token works until logout and not after.
	w, _ = s.do(t, http.MethodGet, "/api/orders/my-orders", registered.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/auth/logout", registered.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/orders/my-orders", registered.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := setupServer(t, nil)

	bad := registerPayload()
	bad["phone"] = "12345"
	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "phone")

	missing := registerPayload()
	delete(missing, "password")
	w, _ = s.do(t, http.MethodPost, "/api/auth/register", "", missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
