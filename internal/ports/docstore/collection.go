package docstore

import (
	"context"
	"fmt"

	"pet-services/internal/platform/apperr"
)

var (
	ErrNotFound  = fmt.Errorf("%w: document not found", apperr.ErrNotFound)
	ErrDuplicate = fmt.Errorf("%w: document already exists", apperr.ErrConflict)
	// ErrConflict: el documento existe pero no cumple el match de Update.
	ErrConflict = fmt.Errorf("%w: document changed", apperr.ErrConflict)
)

// Filter es un filtro de igualdad sobre campos de primer nivel (nombres bson/json).
type Filter map[string]any

// Fields son los campos a setear en un Update parcial.
type Fields map[string]any

type FindOptions struct {
	Sort  string
	Desc  bool
	Limit int
}

// Collection es una colección de documentos tipados, identificados por un id string.
// Implementaciones: memory, mongo, postgres (JSONB).
type Collection[T any] interface {
	Insert(ctx context.Context, id string, doc T) error
	Get(ctx context.Context, id string) (T, error)
	Find(ctx context.Context, f Filter, opts FindOptions) ([]T, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Replace(ctx context.Context, id string, doc T) error
	// Update aplica set solo si el documento cumple match.
	// Devuelve ErrNotFound si no existe y ErrConflict si existe pero no matchea.
	Update(ctx context.Context, id string, match Filter, set Fields) error
	Delete(ctx context.Context, id string) error
}
