package customers

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
	r.Route("/customers", func(cr chi.Router) {
		cr.Post("/register", registerHandler(svc, log))

		cr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermCustomers))
			ar.Get("/", listHandler(svc, log))
			ar.Get("/{customerID}", getHandler(svc, log))
			ar.Put("/{customerID}", updateHandler(svc, log))
			ar.Delete("/{customerID}", deleteHandler(svc, log))
		})
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type updateRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// registerHandler godoc
// @Summary Registro de cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos del cliente"
// @Success 201 {object} customerResponse
// @Failure 400 {string} string "datos inválidos"
// @Failure 409 {string} string "email already registered"
// @Router /customers/register [post]
func registerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		c, err := svc.Register(r.Context(), RegisterInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(c))
	}
}

func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), httpx.QueryInt(r, "limit", 100))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		out := make([]customerResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "customerID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		c, err := svc.Update(r.Context(), chi.URLParam(r, "customerID"), UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "customerID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(c Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
