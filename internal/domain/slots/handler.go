package slots

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
	r.Route("/slots", func(sr chi.Router) {
		sr.Get("/", listSlotsHandler(svc, log))
		sr.Get("/{slotID}", getSlotHandler(svc, log))

		sr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermSlots))
			ar.Post("/generate", generateSlotsHandler(svc, log))
			ar.Post("/purge", purgeSlotsHandler(svc, log))
			ar.Delete("/{slotID}", deleteSlotHandler(svc, log))
		})
	})
}

type generateRequest struct {
	DoctorID        string `json:"doctor_id"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
}

type purgeResponse struct {
	Before  string `json:"before"`
	Deleted int    `json:"deleted"`
}

// listSlotsHandler godoc
// @Summary Listar turnos
// @Description Lista turnos ordenados por fecha/hora. available=true devuelve solo los libres.
// @Tags slots
// @Produce json
// @Param doctor_id query string false "ID del doctor"
// @Param date query string false "Fecha YYYY-MM-DD"
// @Param available query bool false "Solo turnos libres"
// @Param limit query int false "Máximo de resultados"
// @Success 200 {array} Slot
// @Failure 400 {string} string "fecha inválida"
// @Router /slots [get]
func listSlotsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			DoctorID:      strings.TrimSpace(q.Get("doctor_id")),
			Date:          strings.TrimSpace(q.Get("date")),
			OnlyAvailable: q.Get("available") == "true",
			Limit:         httpx.QueryInt(r, "limit", 0),
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

func getSlotHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.GetByID(r.Context(), chi.URLParam(r, "slotID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, s)
	}
}

// generateSlotsHandler godoc
// @Summary Generar turnos de un día
// @Description Parte el rango start-end en turnos de duration_minutes. El tramo final incompleto se descarta y los turnos existentes se saltean.
// @Tags slots
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body generateRequest true "doctor_id, date (YYYY-MM-DD), start/end (HH:MM), duration_minutes"
// @Success 201 {object} GenerateResult
// @Failure 400 {string} string "rango inválido"
// @Router /slots/generate [post]
func generateSlotsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		res, err := svc.Generate(r.Context(), GenerateInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, res)
	}
}

// purgeSlotsHandler godoc
// @Summary Borrar turnos libres vencidos
// @Tags slots
// @Produce json
// @Param before query string true "Fecha límite YYYY-MM-DD (exclusiva)"
// @Success 200 {object} purgeResponse
// @Router /slots/purge [post]
func purgeSlotsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		before := strings.TrimSpace(r.URL.Query().Get("before"))
		n, err := svc.PurgeBefore(r.Context(), before)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, purgeResponse{Before: before, Deleted: n})
	}
}

// deleteSlotHandler godoc
// @Summary Eliminar turno
// @Description Solo turnos libres; un turno reservado responde 409.
// @Tags slots
// @Param slotID path string true "ID del turno"
// @Success 204
// @Failure 404 {string} string "slot not found"
// @Failure 409 {string} string "slot already booked"
// @Router /slots/{slotID} [delete]
func deleteSlotHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "slotID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
