package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"pet-services/internal/platform/apperr"

	"github.com/google/uuid"
)

var ErrNotFound = fmt.Errorf("%w: blob not found", apperr.ErrNotFound)

// Object describe un archivo guardado. URL es la que se persiste en los documentos.
type Object struct {
	Path        string
	URL         string
	ContentType string
	Size        int64
}

type Store interface {
	Put(ctx context.Context, path, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, path string) (io.ReadCloser, Object, error)
	Delete(ctx context.Context, path string) error
}

// Prefijos usados por los módulos.
const (
	PrefixProducts      = "products"
	PrefixTestimonials  = "testimonials"
	PrefixPrescriptions = "prescriptions"
)

// NewPath arma "<prefix>/<uuid><ext>" conservando la extensión del archivo subido.
func NewPath(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return prefix + "/" + uuid.NewString() + ext
}

// IsImage acepta los content types de imagen que sirve el sitio.
func IsImage(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}
