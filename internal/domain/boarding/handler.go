package boarding

import (
	"net/http"
	"strings"
	"time"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/boarding", func(br chi.Router) {
		// Público
		br.Post("/register", registerHandler(svc, log))
		br.Get("/centers", listApprovedHandler(svc, log))

		br.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermBoarding))
			ar.Get("/", listHandler(svc, log))
			ar.Get("/{centerID}", getHandler(svc, log))
			ar.Put("/{centerID}", updateHandler(svc, log))
			ar.Delete("/{centerID}", deleteHandler(svc, log))
			ar.Post("/{centerID}/approve", approveHandler(svc, log))
			ar.Post("/{centerID}/reject", rejectHandler(svc, log))
		})
	})
}

type profileRequest struct {
	Name        string          `json:"name"`
	OwnerName   string          `json:"owner_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Services    map[string]bool `json:"services"`
	PetTypes    map[string]bool `json:"pet_types"`
	PricePerDay float64         `json:"price_per_day"`
	Capacity    int             `json:"capacity"`
}

type registerRequest struct {
	profileRequest
	Username string `json:"username"`
	Password string `json:"password"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type centerResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	OwnerName       string          `json:"owner_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	Services        map[string]bool `json:"services"`
	PetTypes        map[string]bool `json:"pet_types"`
	PricePerDay     float64         `json:"price_per_day"`
	Capacity        int             `json:"capacity"`
	Status          Status          `json:"status"`
	AdminID         string          `json:"admin_id,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// registerHandler godoc
// @Summary Registrar centro de alojamiento
// @Description Alta pública; queda en estado pending hasta que un admin lo apruebe.
// @Tags boarding
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos del centro y credenciales de la futura cuenta"
// @Success 201 {object} centerResponse
// @Failure 400 {string} string "datos inválidos"
// @Router /boarding/register [post]
func registerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		c, err := svc.Register(r.Context(), RegisterInput{
			Profile:  Profile(req.profileRequest),
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(c))
	}
}

// listApprovedHandler godoc
// @Summary Centros aprobados
// @Tags boarding
// @Produce json
// @Param city query string false "Filtrar por ciudad"
// @Success 200 {array} centerResponse
// @Router /boarding/centers [get]
func listApprovedHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListApproved(r.Context(), r.URL.Query().Get("city"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		writeList(w, items)
	}
}

func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		items, err := svc.List(r.Context(), claims, Status(strings.TrimSpace(r.URL.Query().Get("status"))))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		writeList(w, items)
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		c, err := svc.Get(r.Context(), claims, chi.URLParam(r, "centerID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		var req profileRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		c, err := svc.Update(r.Context(), claims, chi.URLParam(r, "centerID"), Profile(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

// approveHandler godoc
// @Summary Aprobar centro
// @Description Solo desde pending. Crea la cuenta boarding_center vinculada con el username registrado.
// @Tags boarding
// @Produce json
// @Param centerID path string true "ID del centro"
// @Success 200 {object} centerResponse
// @Failure 409 {string} string "not pending / username already exists"
// @Router /boarding/{centerID}/approve [post]
func approveHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		c, err := svc.Approve(r.Context(), claims, chi.URLParam(r, "centerID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

// rejectHandler godoc
// @Summary Rechazar centro
// @Tags boarding
// @Accept json
// @Produce json
// @Param centerID path string true "ID del centro"
// @Param payload body rejectRequest true "Motivo"
// @Success 200 {object} centerResponse
// @Failure 409 {string} string "boarding center is not pending"
// @Router /boarding/{centerID}/reject [post]
func rejectHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		var req rejectRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		c, err := svc.Reject(r.Context(), claims, chi.URLParam(r, "centerID"), req.Reason)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(c))
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := svc.Delete(r.Context(), claims, chi.URLParam(r, "centerID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeList(w http.ResponseWriter, items []Center) {
	out := make([]centerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toResponse(c Center) centerResponse {
	return centerResponse{
		ID:              c.ID,
		Name:            c.Name,
		OwnerName:       c.OwnerName,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		City:            c.City,
		Services:        c.Services,
		PetTypes:        c.PetTypes,
		PricePerDay:     c.PricePerDay,
		Capacity:        c.Capacity,
		Status:          c.Status,
		AdminID:         c.AdminID,
		RejectionReason: c.RejectionReason,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
