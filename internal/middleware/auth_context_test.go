package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-services/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims auth.Claims
}

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return s.claims, nil
}

func captureClaims(got *auth.Claims, ok *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *ok = GetClaims(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthContext_DevHeaders(t *testing.T) {
	var got auth.Claims
	var ok bool
	h := AuthContext(nil)(captureClaims(&got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u1")
	req.Header.Set("X-Debug-Role", "doctor")
	req.Header.Set("X-Debug-Doctor-ID", "d1")
	req.Header.Set("X-Debug-Permissions", "appointments, prescriptions")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, auth.RoleDoctor, got.Role)
	assert.Equal(t, "d1", got.DoctorID)
	assert.True(t, got.Can("prescriptions"))
	assert.False(t, got.Can("products"))
}

func TestAuthContext_BearerToken(t *testing.T) {
	var got auth.Claims
	var ok bool
	h := AuthContext(stubVerifier{claims: auth.Claims{UserID: "a1", Role: auth.RoleAdmin}})(captureClaims(&got, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "a1", got.UserID)

	ok = false
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	req.Header.Set("X-Debug-User-ID", "ignored")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := AuthContext(nil)(RequirePermission("products")(ok))

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"anonymous", func(r *http.Request) {}, http.StatusUnauthorized},
		{"missing permission", func(r *http.Request) {
			r.Header.Set("X-Debug-User-ID", "u")
			r.Header.Set("X-Debug-Role", "admin")
			r.Header.Set("X-Debug-Permissions", "bookings")
		}, http.StatusForbidden},
		{"granted", func(r *http.Request) {
			r.Header.Set("X-Debug-User-ID", "u")
			r.Header.Set("X-Debug-Role", "admin")
			r.Header.Set("X-Debug-Permissions", "products")
		}, http.StatusOK},
		{"super admin", func(r *http.Request) {
			r.Header.Set("X-Debug-User-ID", "root")
		}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
