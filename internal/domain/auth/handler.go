package auth

import (
	"net/http"
	"time"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	authport "pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc, log))
		ar.Post("/otp/verify", verifyOTPHandler(svc, log))
		ar.With(middleware.RequireAuth).Get("/me", meHandler())
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

type loginResponse struct {
	Token       string     `json:"token,omitempty"`
	TokenType   string     `json:"token_type,omitempty"`
	OTPRequired bool       `json:"otp_required"`
	ChallengeID string     `json:"challenge_id,omitempty"`
	ExpiresAt   *time.Time `json:"otp_expires_at,omitempty"`
}

type meResponse struct {
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	Role        authport.Role   `json:"role"`
	Permissions map[string]bool `json:"permissions"`
	DoctorID    string          `json:"doctor_id,omitempty"`
	CenterID    string          `json:"center_id,omitempty"`
}

func toLoginResponse(res LoginResult) loginResponse {
	out := loginResponse{OTPRequired: res.OTPRequired, ChallengeID: res.ChallengeID}
	if res.Token != "" {
		out.Token = res.Token
		out.TokenType = "Bearer"
	}
	if !res.ExpiresAt.IsZero() {
		exp := res.ExpiresAt
		out.ExpiresAt = &exp
	}
	return out
}

// loginHandler godoc
// @Summary Login del back office
// @Description Verifica usuario y contraseña. Si OTP_REQUIRED=true responde challenge_id y envía el código por email; si no, devuelve el token.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "invalid username or password"
// @Failure 403 {string} string "account is disabled"
// @Router /auth/login [post]
func loginHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		res, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toLoginResponse(res))
	}
}

// verifyOTPHandler godoc
// @Summary Verificar OTP
// @Description Canjea el código de 6 dígitos por un token. Máximo 5 intentos por challenge, un solo uso.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body verifyOTPRequest true "challenge_id y code"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "invalid otp code / otp expired"
// @Failure 403 {string} string "too many otp attempts"
// @Failure 409 {string} string "otp already used"
// @Router /auth/otp/verify [post]
func verifyOTPHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		res, err := svc.VerifyOTP(r.Context(), req.ChallengeID, req.Code)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toLoginResponse(res))
	}
}

// meHandler godoc
// @Summary Claims del usuario actual
// @Tags auth
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} meResponse
// @Failure 401 {string} string "unauthorized"
// @Router /auth/me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _ := middleware.GetClaims(r.Context())
		perms := c.Permissions
		if perms == nil {
			perms = map[string]bool{}
		}
		httpx.WriteJSON(w, http.StatusOK, meResponse{
			UserID:      c.UserID,
			Username:    c.Username,
			Role:        c.Role,
			Permissions: perms,
			DoctorID:    c.DoctorID,
			CenterID:    c.CenterID,
		})
	}
}
