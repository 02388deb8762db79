package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: X-Debug-User-ID (+ X-Debug-Role, X-Debug-Permissions CSV,
//   X-Debug-Doctor-ID, X-Debug-Center-ID) arman las claims.
// - Si no hay claims, el request sigue igual; RequireAuth/RequirePermission deciden.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if claims, ok := debugClaims(r); ok {
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// token inválido = anónimo; las rutas protegidas responden 401.
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func debugClaims(r *http.Request) (auth.Claims, bool) {
	uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID"))
	if uid == "" {
		return auth.Claims{}, false
	}
	c := auth.Claims{
		UserID:   uid,
		Username: uid,
		Role:     auth.Role(strings.TrimSpace(r.Header.Get("X-Debug-Role"))),
		DoctorID: strings.TrimSpace(r.Header.Get("X-Debug-Doctor-ID")),
		CenterID: strings.TrimSpace(r.Header.Get("X-Debug-Center-ID")),
	}
	if c.Role == "" {
		c.Role = auth.RoleSuperAdmin
	}
	if perms := r.Header.Get("X-Debug-Permissions"); perms != "" {
		c.Permissions = map[string]bool{}
		for _, p := range strings.Split(perms, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Permissions[p] = true
			}
		}
	}
	return c, true
}

// WithClaims guarda claims en el contexto (también usado en tests de servicios).
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// RequireAuth corta con 401 si no hay claims.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := GetClaims(r.Context()); !ok || strings.TrimSpace(c.UserID) == "" {
			httpx.WriteError(w, nil, apperr.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission exige claims con el permiso del módulo (super_admin pasa siempre).
func RequirePermission(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(c.UserID) == "" {
				httpx.WriteError(w, nil, apperr.ErrUnauthorized)
				return
			}
			if !c.Can(module) {
				httpx.WriteError(w, nil, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
