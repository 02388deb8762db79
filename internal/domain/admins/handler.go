package admins

import (
	"net/http"
	"time"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	// Alta del primer super_admin (pública, solo con colección vacía)
	r.Post("/setup", setupHandler(svc, log))

	r.Route("/admins", func(ar chi.Router) {
		ar.Use(middleware.RequirePermission(auth.PermUsers))
		ar.Get("/", listAdminsHandler(svc, log))
		ar.Post("/", createAdminHandler(svc, log))
		ar.Get("/{adminID}", getAdminHandler(svc, log))
		ar.Put("/{adminID}", updateAdminHandler(svc, log))
		ar.Delete("/{adminID}", deleteAdminHandler(svc, log))
	})
}

type createAdminRequest struct {
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Password    string          `json:"password"`
	Role        auth.Role       `json:"role"`
	Permissions map[string]bool `json:"permissions"`
	DoctorID    string          `json:"doctor_id"`
	CenterID    string          `json:"center_id"`
}

type updateAdminRequest struct {
	Username    *string         `json:"username"`
	Email       *string         `json:"email"`
	Name        *string         `json:"name"`
	Password    *string         `json:"password"`
	Role        *auth.Role      `json:"role"`
	Permissions map[string]bool `json:"permissions"`
	DoctorID    *string         `json:"doctor_id"`
	CenterID    *string         `json:"center_id"`
	Active      *bool           `json:"active"`
}

type adminResponse struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        auth.Role       `json:"role"`
	Permissions map[string]bool `json:"permissions"`
	DoctorID    string          `json:"doctor_id,omitempty"`
	CenterID    string          `json:"center_id,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// setupHandler godoc
// @Summary Setup inicial
// @Description Crea el primer super_admin. Solo funciona mientras no exista ninguna cuenta.
// @Tags admins
// @Accept json
// @Produce json
// @Param payload body createAdminRequest true "username, email, name, password (role y permissions se ignoran)"
// @Success 201 {object} adminResponse
// @Failure 400 {string} string "datos inválidos"
// @Failure 409 {string} string "setup already completed"
// @Router /setup [post]
func setupHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAdminRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		a, err := svc.Setup(r.Context(), CreateInput{
			Username: req.Username,
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		log.Info("initial super admin created", map[string]any{"admin_id": a.ID})
		httpx.WriteJSON(w, http.StatusCreated, toAdminResponse(a))
	}
}

// listAdminsHandler godoc
// @Summary Listar cuentas
// @Tags admins
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} adminResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admins [get]
func listAdminsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		out := make([]adminResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAdminResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// createAdminHandler godoc
// @Summary Crear cuenta
// @Description Username y email son únicos (sin distinguir mayúsculas). Password mínimo 8 caracteres.
// @Tags admins
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createAdminRequest true "Datos de la cuenta"
// @Success 201 {object} adminResponse
// @Failure 400 {string} string "datos inválidos"
// @Failure 409 {string} string "username/email duplicado"
// @Router /admins [post]
func createAdminHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAdminRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		a, err := svc.Create(r.Context(), CreateInput{
			Username:    req.Username,
			Email:       req.Email,
			Name:        req.Name,
			Password:    req.Password,
			Role:        req.Role,
			Permissions: req.Permissions,
			DoctorID:    req.DoctorID,
			CenterID:    req.CenterID,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toAdminResponse(a))
	}
}

func getAdminHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "adminID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAdminResponse(a))
	}
}

// updateAdminHandler godoc
// @Summary Editar cuenta
// @Description Campos omitidos no se tocan. La unicidad excluye a la propia cuenta.
// @Tags admins
// @Accept json
// @Produce json
// @Param adminID path string true "ID de la cuenta"
// @Param payload body updateAdminRequest true "Campos a modificar"
// @Success 200 {object} adminResponse
// @Failure 404 {string} string "admin not found"
// @Failure 409 {string} string "username/email duplicado"
// @Router /admins/{adminID} [put]
func updateAdminHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateAdminRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		a, err := svc.Update(r.Context(), chi.URLParam(r, "adminID"), UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAdminResponse(a))
	}
}

// deleteAdminHandler godoc
// @Summary Eliminar cuenta
// @Tags admins
// @Param adminID path string true "ID de la cuenta"
// @Success 204
// @Failure 403 {string} string "an admin cannot delete itself"
// @Failure 404 {string} string "admin not found"
// @Router /admins/{adminID} [delete]
func deleteAdminHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "adminID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toAdminResponse(a Admin) adminResponse {
	return adminResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Name:        a.Name,
		Role:        a.Role,
		Permissions: a.Permissions,
		DoctorID:    a.DoctorID,
		CenterID:    a.CenterID,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
