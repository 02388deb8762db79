package testimonials

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/blob"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = fmt.Errorf("%w: invalid testimonial", apperr.ErrInvalidInput)
	ErrInvalidRating = fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrInvalidInput)
	ErrNotImage      = fmt.Errorf("%w: file must be an image", apperr.ErrInvalidInput)
	ErrNotFound      = fmt.Errorf("%w: testimonial not found", apperr.ErrNotFound)
)

type Service struct {
	repo  Repository
	blobs blob.Store
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, blobs blob.Store, log logger.Logger) *Service {
	return &Service{repo: repo, blobs: blobs, log: log, now: time.Now}
}

type Input struct {
	Name      string
	Message   string
	Rating    int
	Published bool
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: name and message are required", ErrInvalidInput)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (Testimonial, error) {
	if err := in.validate(); err != nil {
		return Testimonial{}, err
	}
	now := s.now().UTC()
	t := Testimonial{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Message:   strings.TrimSpace(in.Message),
		Rating:    in.Rating,
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Testimonial{}, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Testimonial, error) {
	if err := in.validate(); err != nil {
		return Testimonial{}, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Testimonial{}, err
	}
	t.Name = strings.TrimSpace(in.Name)
	t.Message = strings.TrimSpace(in.Message)
	t.Rating = in.Rating
	t.Published = in.Published
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return Testimonial{}, err
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Testimonial, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, publishedOnly bool, limit int) ([]Testimonial, error) {
	return s.repo.List(ctx, publishedOnly, limit)
}

// SetImage sube la imagen y reemplaza la anterior (que se borra best effort).
func (s *Service) SetImage(ctx context.Context, id, filename, contentType string, r io.Reader) (Testimonial, error) {
	if !blob.IsImage(contentType) {
		return Testimonial{}, ErrNotImage
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Testimonial{}, err
	}
	obj, err := s.blobs.Put(ctx, blob.NewPath(blob.PrefixTestimonials, filename), contentType, r)
	if err != nil {
		return Testimonial{}, err
	}

	old := t.ImagePath
	t.ImageURL, t.ImagePath = obj.URL, obj.Path
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		s.deleteBlob(ctx, obj.Path)
		return Testimonial{}, err
	}
	s.deleteBlob(ctx, old)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteBlob(ctx, t.ImagePath)
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
