package appointments

import (
	"net/http"
	"strings"
	"time"

	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/appointments", func(ar chi.Router) {
		// Reserva pública
		ar.Post("/", bookHandler(svc, log))

		ar.Group(func(pr chi.Router) {
			pr.Use(middleware.RequirePermission(auth.PermAppointments))
			pr.Get("/", listHandler(svc, log))
			pr.Get("/{appointmentID}", getHandler(svc, log))
			pr.Patch("/{appointmentID}/status", updateStatusHandler(svc, log))
			pr.Delete("/{appointmentID}", deleteHandler(svc, log))
		})
	})
}

type bookRequest struct {
	DoctorID string          `json:"doctor_id"`
	SlotID   string          `json:"slot_id"`
	Owner    lifecycle.Owner `json:"owner"`
	Pet      lifecycle.Pet   `json:"pet"`
	Reason   string          `json:"reason"`
}

type statusRequest struct {
	Status lifecycle.Status `json:"status"`
	Notes  *string          `json:"notes"`
}

type appointmentResponse struct {
	ID        string           `json:"id"`
	DoctorID  string           `json:"doctor_id"`
	SlotID    string           `json:"slot_id"`
	Date      string           `json:"date"`
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Owner     lifecycle.Owner  `json:"owner"`
	Pet       lifecycle.Pet    `json:"pet"`
	Reason    string           `json:"reason"`
	Status    lifecycle.Status `json:"status"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// bookHandler godoc
// @Summary Reservar cita
// @Description Reserva el turno indicado para el doctor. Si el turno ya fue tomado responde 409.
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body bookRequest true "doctor_id, slot_id, owner {name,email,phone}, pet {name,species,breed,age}, reason"
// @Success 201 {object} appointmentResponse
// @Failure 400 {string} string "datos inválidos"
// @Failure 404 {string} string "doctor/slot not found"
// @Failure 409 {string} string "slot is not available"
// @Router /appointments [post]
func bookHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		a, err := svc.Book(r.Context(), BookInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(a))
	}
}

// listHandler godoc
// @Summary Listar citas
// @Description Un usuario con rol doctor solo ve sus propias citas.
// @Tags appointments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param status query string false "pending|confirmed|completed|cancelled"
// @Param doctor_id query string false "ID del doctor"
// @Param date query string false "Fecha YYYY-MM-DD"
// @Param limit query int false "Máximo de resultados (default 100)"
// @Success 200 {array} appointmentResponse
// @Router /appointments [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		q := r.URL.Query()
		items, err := svc.List(r.Context(), claims, ListFilter{
			Status:   lifecycle.Status(strings.TrimSpace(q.Get("status"))),
			DoctorID: strings.TrimSpace(q.Get("doctor_id")),
			Date:     strings.TrimSpace(q.Get("date")),
			Limit:    httpx.QueryInt(r, "limit", 100),
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		a, err := svc.Get(r.Context(), claims, chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(a))
	}
}

// updateStatusHandler godoc
// @Summary Cambiar estado de la cita
// @Description pending→confirmed→completed; cancelled desde pending o confirmed. Cancelar libera el turno.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param payload body statusRequest true "Nuevo estado y notas opcionales"
// @Success 200 {object} appointmentResponse
// @Failure 403 {string} string "appointment belongs to another doctor"
// @Failure 409 {string} string "invalid status transition"
// @Router /appointments/{appointmentID}/status [patch]
func updateStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		var req statusRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		a, err := svc.UpdateStatus(r.Context(), claims, chi.URLParam(r, "appointmentID"), req.Status, req.Notes)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(a))
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := svc.Delete(r.Context(), claims, chi.URLParam(r, "appointmentID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		SlotID:    a.SlotID,
		Date:      a.Date,
		Start:     a.Start,
		End:       a.End,
		Owner:     a.Owner,
		Pet:       a.Pet,
		Reason:    a.Reason,
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
