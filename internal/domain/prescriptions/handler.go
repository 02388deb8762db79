package prescriptions

import (
	"net/http"
	"strings"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Use(middleware.RequirePermission(auth.PermPrescriptions))
		pr.Post("/", issueHandler(svc, log))
		pr.Get("/", listHandler(svc, log))
		pr.Get("/{prescriptionID}", getHandler(svc, log))
		pr.Delete("/{prescriptionID}", deleteHandler(svc, log))
	})
}

type issueRequest struct {
	AppointmentID string     `json:"appointment_id"`
	Diagnosis     string     `json:"diagnosis"`
	Medicines     []Medicine `json:"medicines"`
	Advice        string     `json:"advice"`
}

// issueHandler godoc
// @Summary Emitir receta
// @Description Genera la receta de una cita (no cancelada) como imagen PNG y la guarda en prescriptions/.
// @Tags prescriptions
// @Accept json
// @Produce json
// @Param payload body issueRequest true "appointment_id, diagnosis, medicines, advice"
// @Success 201 {object} Prescription
// @Failure 409 {string} string "appointment is cancelled"
// @Router /prescriptions [post]
func issueHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		var req issueRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		p, err := svc.Issue(r.Context(), claims, IssueInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, p)
	}
}

// listHandler godoc
// @Summary Listar recetas
// @Tags prescriptions
// @Produce json
// @Param appointment_id query string false "Filtra por cita"
// @Param doctor_id query string false "Filtra por doctor (ignorado para rol doctor)"
// @Success 200 {array} Prescription
// @Router /prescriptions [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		q := r.URL.Query()
		items, err := svc.List(r.Context(), claims, ListFilter{
			AppointmentID: strings.TrimSpace(q.Get("appointment_id")),
			DoctorID:      strings.TrimSpace(q.Get("doctor_id")),
			Limit:         httpx.QueryInt(r, "limit", 100),
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		p, err := svc.Get(r.Context(), claims, chi.URLParam(r, "prescriptionID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p)
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := svc.Delete(r.Context(), claims, chi.URLParam(r, "prescriptionID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
