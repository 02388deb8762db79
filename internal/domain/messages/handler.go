package messages

import (
	"net/http"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/messages", func(mr chi.Router) {
		mr.Post("/", createHandler(svc, log))

		mr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermMessages))
			ar.Get("/", listHandler(svc, log))
			ar.Get("/{messageID}", getHandler(svc, log))
			ar.Patch("/{messageID}/read", readHandler(svc, log))
			ar.Delete("/{messageID}", deleteHandler(svc, log))
		})
	})
}

type createRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type readRequest struct {
	Read *bool `json:"read"`
}

// createHandler godoc
// @Summary Enviar mensaje de contacto
// @Tags messages
// @Accept json
// @Produce json
// @Param payload body createRequest true "Mensaje"
// @Success 201 {object} Message
// @Router /messages [post]
func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		m, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, m)
	}
}

// listHandler godoc
// @Summary Listar mensajes
// @Tags messages
// @Produce json
// @Param unread query bool false "Solo no leídos"
// @Success 200 {array} Message
// @Router /messages [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), r.URL.Query().Get("unread") == "true", httpx.QueryInt(r, "limit", 100))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "messageID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, m)
	}
}

// readHandler marca como leído; body opcional {"read": false} para desmarcar.
func readHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		read := true
		if r.ContentLength > 0 {
			var req readRequest
			if err := httpx.DecodeJSON(r, &req); err != nil {
				httpx.WriteError(w, log, err)
				return
			}
			if req.Read != nil {
				read = *req.Read
			}
		}
		m, err := svc.MarkRead(r.Context(), chi.URLParam(r, "messageID"), read)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, m)
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "messageID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
