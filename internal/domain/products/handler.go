package products

import (
	"net/http"
	"strings"

	"pet-services/internal/middleware"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/httpx"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// maxImageBytes limita el tamaño de cada imagen subida.
const maxImageBytes = 5 << 20

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", listHandler(svc, log))
		pr.Get("/{productID}", getHandler(svc, log))

		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequirePermission(auth.PermProducts))
			ar.Post("/", createHandler(svc, log))
			ar.Put("/{productID}", updateHandler(svc, log))
			ar.Delete("/{productID}", deleteHandler(svc, log))
			ar.Post("/{productID}/images", addImageHandler(svc, log))
			ar.Delete("/{productID}/images", removeImageHandler(svc, log))
		})
	})
}

type productRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Price          float64  `json:"price"`
	SalePrice      float64  `json:"sale_price"`
	Stock          int      `json:"stock"`
	Specifications []Spec   `json:"specifications"`
	Tags           []string `json:"tags"`
	Active         *bool    `json:"active"`
}

// listHandler godoc
// @Summary Listar productos
// @Description Público. Solo devuelve productos activos salvo que el llamador tenga permiso de productos y pida include_inactive.
// @Tags products
// @Produce json
// @Param category query string false "Categoría"
// @Param tag query string false "Tag"
// @Param limit query int false "Máximo de resultados (default 50)"
// @Success 200 {array} Product
// @Router /products [get]
func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		activeOnly := true
		if q.Get("include_inactive") == "true" {
			if c, ok := middleware.GetClaims(r.Context()); ok && c.Can(auth.PermProducts) {
				activeOnly = false
			}
		}
		items, err := svc.List(r.Context(), ListFilter{
			Category:   q.Get("category"),
			Tag:        q.Get("tag"),
			ActiveOnly: activeOnly,
			Limit:      httpx.QueryInt(r, "limit", 50),
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

// getHandler godoc
// @Summary Obtener producto
// @Tags products
// @Produce json
// @Param productID path string true "ID del producto"
// @Success 200 {object} Product
// @Failure 404 {string} string "product not found"
// @Router /products/{productID} [get]
func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p)
	}
}

// createHandler godoc
// @Summary Crear producto
// @Tags products
// @Accept json
// @Produce json
// @Param payload body productRequest true "Producto"
// @Success 201 {object} Product
// @Failure 400 {string} string "datos inválidos"
// @Router /products [post]
func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		p, err := svc.Create(r.Context(), Input(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, p)
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		p, err := svc.Update(r.Context(), chi.URLParam(r, "productID"), Input(req))
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p)
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// addImageHandler godoc
// @Summary Subir imagen de producto
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param productID path string true "ID del producto"
// @Param image formData file true "Imagen (jpeg, png, webp, gif)"
// @Success 200 {object} Product
// @Failure 400 {string} string "file must be an image"
// @Router /products/{productID}/images [post]
func addImageHandler(svc *Service, log logger.Logger) http.HandlerFunc {
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

		p, err := svc.AddImage(r.Context(), chi.URLParam(r, "productID"), hdr.Filename, hdr.Header.Get("Content-Type"), f)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p)
	}
}

// removeImageHandler godoc
// @Summary Quitar imagen de producto
// @Tags products
// @Produce json
// @Param productID path string true "ID del producto"
// @Param path query string true "Path del blob"
// @Success 200 {object} Product
// @Router /products/{productID}/images [delete]
func removeImageHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSpace(r.URL.Query().Get("path"))
		if path == "" {
			httpx.WriteError(w, log, apperr.ErrInvalidInput)
			return
		}
		p, err := svc.RemoveImage(r.Context(), chi.URLParam(r, "productID"), path)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p)
	}
}
