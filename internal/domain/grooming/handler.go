package grooming

import (
	"net/http"
	"strings"

	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/grooming", func(gr chi.Router) {
		gr.Post("/", createHandler(svc, log))

		gr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermBookings))
			ar.Get("/", listHandler(svc, log))
			ar.Get("/{bookingID}", getHandler(svc, log))
			ar.Patch("/{bookingID}", updateHandler(svc, log))
			ar.Patch("/{bookingID}/status", statusHandler(svc, log))
			ar.Delete("/{bookingID}", deleteHandler(svc, log))
		})
	})
}

type createRequest struct {
	Owner    lifecycle.Owner `json:"owner"`
	Pet      lifecycle.Pet   `json:"pet"`
	Services []ServiceItem   `json:"services"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
	Notes    string          `json:"notes"`
}

type updateRequest struct {
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Notes *string `json:"notes"`
}

type statusRequest struct {
	Status lifecycle.Status `json:"status"`
}

// createHandler godoc
// @Summary Reservar grooming
// @Description El total se calcula como la suma de los precios de los servicios; el total enviado por el cliente no se usa.
// @Tags grooming
// @Accept json
// @Produce json
// @Param payload body createRequest true "owner, pet, services [{name, price}], date YYYY-MM-DD, time HH:MM"
// @Success 201 {object} Booking
// @Failure 400 {string} string "datos inválidos"
// @Router /grooming [post]
func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		b, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, b)
	}
}

// listHandler godoc
// @Summary Listar reservas de grooming
// @Tags grooming
// @Produce json
// @Param status query string false "pending|confirmed|completed|cancelled"
// @Param date query string false "Fecha YYYY-MM-DD"
// @Param limit query int false "Máximo de resultados (default 100)"
// @Success 200 {array} Booking
// @Router /grooming [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Status: lifecycle.Status(strings.TrimSpace(q.Get("status"))),
			Date:   strings.TrimSpace(q.Get("date")),
			Limit:  httpx.QueryInt(r, "limit", 100),
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
		b, err := svc.GetByID(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, b)
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		b, err := svc.Update(r.Context(), chi.URLParam(r, "bookingID"), UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, b)
	}
}

// statusHandler godoc
// @Summary Cambiar estado de la reserva
// @Tags grooming
// @Accept json
// @Produce json
// @Param bookingID path string true "ID de la reserva"
// @Param payload body statusRequest true "Nuevo estado"
// @Success 200 {object} Booking
// @Failure 409 {string} string "invalid status transition"
// @Router /grooming/{bookingID}/status [patch]
func statusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		b, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "bookingID"), req.Status)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, b)
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "bookingID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
