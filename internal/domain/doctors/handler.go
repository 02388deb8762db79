package doctors

import (
	"net/http"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/doctors", func(dr chi.Router) {
		// Público: solo activos (salvo include_inactive con permiso doctors)
		dr.Get("/", listDoctorsHandler(svc, log))
		dr.Get("/{doctorID}", getDoctorHandler(svc, log))

		dr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermDoctors))
			ar.Post("/", createDoctorHandler(svc, log))
			ar.Put("/{doctorID}", updateDoctorHandler(svc, log))
			ar.Delete("/{doctorID}", deleteDoctorHandler(svc, log))
		})
	})
}

type doctorRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Specialization string   `json:"specialization"`
	ImageURL       string   `json:"image_url"`
	Schedule       Schedule `json:"schedule"`
	Active         *bool    `json:"active"`
}

// listDoctorsHandler godoc
// @Summary Listar doctores
// @Tags doctors
// @Produce json
// @Param include_inactive query bool false "Incluye inactivos (requiere permiso doctors)"
// @Success 200 {array} Doctor
// @Router /doctors [get]
func listDoctorsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		onlyActive := true
		if r.URL.Query().Get("include_inactive") == "true" {
			if c, ok := middleware.GetClaims(r.Context()); ok && c.Can(auth.PermDoctors) {
				onlyActive = false
			}
		}
		items, err := svc.List(r.Context(), onlyActive)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

func getDoctorHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "doctorID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, d)
	}
}

// createDoctorHandler godoc
// @Summary Crear doctor
// @Description schedule.weekdays usa 0=domingo..6=sábado; start/end HH:MM; slotMinutes > 0.
// @Tags doctors
// @Accept json
// @Produce json
// @Param payload body doctorRequest true "Perfil y agenda"
// @Success 201 {object} Doctor
// @Failure 400 {string} string "invalid doctor / invalid schedule"
// @Router /doctors [post]
func createDoctorHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req doctorRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		d, err := svc.Create(r.Context(), Input(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, d)
	}
}

func updateDoctorHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req doctorRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		d, err := svc.Update(r.Context(), chi.URLParam(r, "doctorID"), Input(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, d)
	}
}

func deleteDoctorHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "doctorID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
