package testimonials

import (
	"net/http"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

const maxImageBytes = 5 << 20

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/testimonials", func(tr chi.Router) {
		tr.Get("/", listHandler(svc, log))

		tr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermTestimonials))
			ar.Post("/", createHandler(svc, log))
			ar.Get("/{testimonialID}", getHandler(svc, log))
			ar.Put("/{testimonialID}", updateHandler(svc, log))
			ar.Post("/{testimonialID}/image", imageHandler(svc, log))
			ar.Delete("/{testimonialID}", deleteHandler(svc, log))
		})
	})
}

type testimonialRequest struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	Rating    int    `json:"rating"`
	Published bool   `json:"published"`
}

// listHandler godoc
// @Summary Listar testimonios
// @Description Público: solo publicados. Con permiso testimonials y all=true devuelve todos.
// @Tags testimonials
// @Produce json
// @Param all query bool false "Incluye no publicados"
// @Param limit query int false "Máximo de resultados (default 20)"
// @Success 200 {array} Testimonial
// @Router /testimonials [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publishedOnly := true
		if r.URL.Query().Get("all") == "true" {
			if c, ok := middleware.GetClaims(r.Context()); ok && c.Can(auth.PermTestimonials) {
				publishedOnly = false
			}
		}
		items, err := svc.List(r.Context(), publishedOnly, httpx.QueryInt(r, "limit", 20))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

// createHandler godoc
// @Summary Crear testimonio
// @Tags testimonials
// @Accept json
// @Produce json
// @Param payload body testimonialRequest true "name, message, rating 1..5, published"
// @Success 201 {object} Testimonial
// @Router /testimonials [post]
func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req testimonialRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		t, err := svc.Create(r.Context(), Input(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, t)
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetByID(r.Context(), chi.URLParam(r, "testimonialID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, t)
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req testimonialRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		t, err := svc.Update(r.Context(), chi.URLParam(r, "testimonialID"), Input(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, t)
	}
}

// imageHandler godoc
// @Summary Subir imagen del testimonio
// @Tags testimonials
// @Accept multipart/form-data
// @Produce json
// @Param testimonialID path string true "ID del testimonio"
// @Param image formData file true "Imagen"
// @Success 200 {object} Testimonial
// @Router /testimonials/{testimonialID}/image [post]
func imageHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+(1<<20))
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			httpx.WriteError(w, log, apperr.ErrInvalidInput)
			return
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			httpx.WriteError(w, log, apperr.ErrInvalidInput)
			return
		}
		defer f.Close()

		t, err := svc.SetImage(r.Context(), chi.URLParam(r, "testimonialID"), hdr.Filename, hdr.Header.Get("Content-Type"), f)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, t)
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "testimonialID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
