package products

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/blob"
	"pet-services/internal/ports/cache"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = fmt.Errorf("%w: invalid product", apperr.ErrInvalidInput)
	ErrInvalidPrice  = fmt.Errorf("%w: price must be greater than 0", apperr.ErrInvalidInput)
	ErrInvalidSale   = fmt.Errorf("%w: sale price must be between 0 and price", apperr.ErrInvalidInput)
	ErrNotImage      = fmt.Errorf("%w: file must be an image", apperr.ErrInvalidInput)
	ErrNotFound      = fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	ErrImageNotFound = fmt.Errorf("%w: image not found on product", apperr.ErrNotFound)
)

type Service struct {
	repo  Repository
	blobs blob.Store
	cache cache.Cache // nil = sin cache
	ttl   time.Duration
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, blobs blob.Store, c cache.Cache, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		blobs: blobs,
		cache: c,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
	}
}

type Input struct {
	Name           string
	Description    string
	Category       string
	Price          float64
	SalePrice      float64
	Stock          int
	Specifications []Spec
	Tags           []string
	Active         *bool
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !(in.Price > 0) || math.IsInf(in.Price, 0) {
		return ErrInvalidPrice
	}
	if in.SalePrice < 0 || in.SalePrice > in.Price || math.IsNaN(in.SalePrice) {
		return ErrInvalidSale
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func cleanSpecs(specs []Spec) []Spec {
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		k := strings.TrimSpace(s.Key)
		if k == "" {
			continue
		}
		out = append(out, Spec{Key: k, Value: strings.TrimSpace(s.Value)})
	}
	return out
}

func cacheKey(id string) string { return "product:" + id }

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Warn("product cache invalidation failed", map[string]any{"error": err, "product_id": id})
	}
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	now := s.now().UTC()
	p := Product{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Category:       strings.ToLower(strings.TrimSpace(in.Category)),
		Price:          in.Price,
		SalePrice:      in.SalePrice,
		Stock:          in.Stock,
		Images:         []Image{},
		Specifications: cleanSpecs(in.Specifications),
		Tags:           cleanTags(in.Tags),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Update reemplaza los campos editables; las imágenes se manejan aparte.
func (s *Service) Update(ctx context.Context, id string, in Input) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Category = strings.ToLower(strings.TrimSpace(in.Category))
	p.Price = in.Price
	p.SalePrice = in.SalePrice
	p.Stock = in.Stock
	p.Specifications = cleanSpecs(in.Specifications)
	p.Tags = cleanTags(in.Tags)
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// Get lee primero del cache (read-through).
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if s.cache != nil {
		var p Product
		hit, err := s.cache.Get(ctx, cacheKey(id), &p)
		if err != nil {
			s.log.Warn("product cache read failed", map[string]any{"error": err, "product_id": id})
		}
		if hit {
			return p, nil
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(id), p, s.ttl); err != nil {
			s.log.Warn("product cache write failed", map[string]any{"error": err, "product_id": id})
		}
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Product, error) {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	return s.repo.List(ctx, f)
}

func (s *Service) AddImage(ctx context.Context, id, filename, contentType string, r io.Reader) (Product, error) {
	if !blob.IsImage(contentType) {
		return Product{}, ErrNotImage
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}

	obj, err := s.blobs.Put(ctx, blob.NewPath(blob.PrefixProducts, filename), contentType, r)
	if err != nil {
		return Product{}, err
	}
	p.Images = append(p.Images, Image{URL: obj.URL, Path: obj.Path})
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		// el documento no referencia el archivo: borrarlo
		s.deleteBlob(ctx, obj.Path)
		return Product{}, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// RemoveImage saca la imagen del producto; el borrado del blob es best effort.
func (s *Service) RemoveImage(ctx context.Context, id, path string) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	kept := make([]Image, 0, len(p.Images))
	found := false
	for _, img := range p.Images {
		if img.Path == path {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return Product{}, ErrImageNotFound
	}
	p.Images = kept
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, id)
	s.deleteBlob(ctx, path)
	return p, nil
}

// Delete intenta borrar todas las imágenes y siempre borra el documento.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, img := range p.Images {
		s.deleteBlob(ctx, img.Path)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) deleteBlob(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.log.Warn("blob delete failed", map[string]any{"error": err, "path": path})
	}
}
