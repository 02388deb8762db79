package customers

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var (
	ErrInvalidInput = fmt.Errorf("%w: invalid customer", apperr.ErrInvalidInput)
	ErrNotFound     = fmt.Errorf("%w: customer not found", apperr.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("%w: email already registered", apperr.ErrConflict)
)

type Service struct {
	repo     Repository
	now      func() time.Time
	hashCost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, hashCost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
}

type UpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Name) == "" {
		return Customer{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Customer{}, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return Customer{}, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	if err := s.ensureEmailFree(ctx, "", email); err != nil {
		return Customer{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return Customer{}, err
	}

	now := s.now().UTC()
	c := Customer{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, selfID, email string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Customer{}, ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return Customer{}, fmt.Errorf("%w: email", ErrInvalidInput)
		}
		if err := s.ensureEmailFree(ctx, c.ID, email); err != nil {
			return Customer{}, err
		}
		c.Email = email
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]Customer, error) {
	return s.repo.List(ctx, limit)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
