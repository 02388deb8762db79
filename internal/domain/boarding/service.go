package boarding

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-services/internal/domain/admins"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	"pet-services/internal/ports/auth"
	"pet-services/internal/ports/docstore"
	"pet-services/internal/ports/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput = fmt.Errorf("%w: invalid boarding center", apperr.ErrInvalidInput)
	ErrNotFound     = fmt.Errorf("%w: boarding center not found", apperr.ErrNotFound)
	ErrNotPending   = fmt.Errorf("%w: boarding center is not pending", apperr.ErrConflict)
	ErrForbidden    = fmt.Errorf("%w: not allowed for this center", apperr.ErrForbidden)
)

// Admins crea (y compensa) la cuenta vinculada al aprobar.
type Admins interface {
	CreateLinked(ctx context.Context, in admins.LinkedInput) (admins.Admin, error)
	Update(ctx context.Context, id string, in admins.UpdateInput) (admins.Admin, error)
	Delete(ctx context.Context, callerID, id string) error
}

type Service struct {
	repo     Repository
	admins   Admins
	pub      events.Publisher
	log      logger.Logger
	now      func() time.Time
	hashCost int
}

func NewService(repo Repository, adminSvc Admins, pub events.Publisher, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		admins:   adminSvc,
		pub:      pub,
		log:      log,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

type Profile struct {
	Name        string
	OwnerName   string
	Email       string
	Phone       string
	Address     string
	City        string
	Services    map[string]bool
	PetTypes    map[string]bool
	PricePerDay float64
	Capacity    int
}

type RegisterInput struct {
	Profile
	Username string
	Password string
}

func (p Profile) clean() (Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.OwnerName = strings.TrimSpace(p.OwnerName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
	p.City = strings.TrimSpace(p.City)
	if p.Name == "" || p.OwnerName == "" {
		return Profile{}, fmt.Errorf("%w: name and owner_name are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return Profile{}, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if p.PricePerDay < 0 || p.Capacity < 0 {
		return Profile{}, fmt.Errorf("%w: price and capacity cannot be negative", ErrInvalidInput)
	}
	if p.Services == nil {
		p.Services = map[string]bool{}
	}
	if p.PetTypes == nil {
		p.PetTypes = map[string]bool{}
	}
	return p, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Center, error) {
	p, err := in.Profile.clean()
	if err != nil {
		return Center{}, err
	}
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return Center{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(in.Password) < admins.MinPasswordLen {
		return Center{}, admins.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return Center{}, err
	}

	now := s.now().UTC()
	c := Center{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	apply(&c, p)
	if err := s.repo.Create(ctx, c); err != nil {
		return Center{}, err
	}
	s.emit(ctx, events.BoardingRegistered, c)
	return c, nil
}

func apply(c *Center, p Profile) {
	c.Name = p.Name
	c.OwnerName = p.OwnerName
	c.Email = p.Email
	c.Phone = p.Phone
	c.Address = p.Address
	c.City = p.City
	c.Services = p.Services
	c.PetTypes = p.PetTypes
	c.PricePerDay = p.PricePerDay
	c.Capacity = p.Capacity
}

func (s *Service) emit(ctx context.Context, t events.Type, c Center) {
	events.Emit(ctx, s.pub, s.log, events.Event{
		Type:       t,
		EntityID:   c.ID,
		Status:     string(c.Status),
		OccurredAt: s.now().UTC(),
		Data: map[string]string{
			"center_name":  c.Name,
			"owner_name":   c.OwnerName,
			"center_email": c.Email,
			"city":         c.City,
			"username":     c.Username,
			"reason":       c.RejectionReason,
		},
	})
}

// own: una cuenta boarding_center solo ve su propio centro.
func own(actor auth.Claims, c Center) error {
	if actor.Role == auth.RoleBoardingCenter && actor.CenterID != c.ID {
		return ErrForbidden
	}
	return nil
}

func reviewer(actor auth.Claims) error {
	if actor.Role == auth.RoleBoardingCenter {
		return ErrForbidden
	}
	return nil
}

func (s *Service) Get(ctx context.Context, actor auth.Claims, id string) (Center, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Center{}, err
	}
	if err := own(actor, c); err != nil {
		return Center{}, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, actor auth.Claims, status Status) ([]Center, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if actor.Role == auth.RoleBoardingCenter {
		c, err := s.Get(ctx, actor, actor.CenterID)
		if err != nil {
			return []Center{}, nil
		}
		return []Center{c}, nil
	}
	return s.repo.List(ctx, status, "")
}

// ListApproved es el listado público.
func (s *Service) ListApproved(ctx context.Context, city string) ([]Center, error) {
	return s.repo.List(ctx, StatusApproved, strings.TrimSpace(city))
}

func (s *Service) Update(ctx context.Context, actor auth.Claims, id string, in Profile) (Center, error) {
	c, err := s.Get(ctx, actor, id)
	if err != nil {
		return Center{}, err
	}
	p, err := in.clean()
	if err != nil {
		return Center{}, err
	}
	if err := s.syncAccountEmail(ctx, c, p.Email); err != nil {
		return Center{}, err
	}
	apply(&c, p)
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return Center{}, err
	}
	return c, nil
}

// syncAccountEmail mantiene el email de la cuenta vinculada igual al del centro. Corre
// antes de guardar el centro para que un email ya usado por otra cuenta no deje los dos
// registros distintos.
func (s *Service) syncAccountEmail(ctx context.Context, c Center, email string) error {
	if c.AdminID == "" || c.Email == email {
		return nil
	}
	_, err := s.admins.Update(ctx, c.AdminID, admins.UpdateInput{Email: &email})
	if errors.Is(err, admins.ErrNotFound) {
		s.log.Warn("linked account missing", map[string]any{"center_id": c.ID, "admin_id": c.AdminID})
		return nil
	}
	return err
}

// Approve crea la cuenta boarding_center con las credenciales registradas.
func (s *Service) Approve(ctx context.Context, actor auth.Claims, id string) (Center, error) {
	if err := reviewer(actor); err != nil {
		return Center{}, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Center{}, err
	}
	if c.Status != StatusPending {
		return Center{}, ErrNotPending
	}

	acct, err := s.admins.CreateLinked(ctx, admins.LinkedInput{
		Username:     c.Username,
		Email:        c.Email,
		Name:         c.OwnerName,
		PasswordHash: c.PasswordHash,
		CenterID:     c.ID,
	})
	if err != nil {
		return Center{}, err
	}

	now := s.now().UTC()
	err = s.repo.Decide(ctx, c.ID, docstore.Fields{
		"status":    string(StatusApproved),
		"adminId":   acct.ID,
		"updatedAt": now,
	})
	if err != nil {
		// otro request decidió primero: no dejar la cuenta huérfana
		if derr := s.admins.Delete(ctx, "", acct.ID); derr != nil {
			s.log.Error("linked admin cleanup failed", map[string]any{"error": derr, "admin_id": acct.ID})
		}
		return Center{}, err
	}

	c.Status = StatusApproved
	c.AdminID = acct.ID
	c.UpdatedAt = now
	s.emit(ctx, events.BoardingApproved, c)
	return c, nil
}

func (s *Service) Reject(ctx context.Context, actor auth.Claims, id, reason string) (Center, error) {
	if err := reviewer(actor); err != nil {
		return Center{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Center{}, fmt.Errorf("%w: rejection reason is required", ErrInvalidInput)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Center{}, err
	}
	if c.Status != StatusPending {
		return Center{}, ErrNotPending
	}

	now := s.now().UTC()
	if err := s.repo.Decide(ctx, c.ID, docstore.Fields{
		"status":          string(StatusRejected),
		"rejectionReason": reason,
		"updatedAt":       now,
	}); err != nil {
		return Center{}, err
	}

	c.Status = StatusRejected
	c.RejectionReason = reason
	c.UpdatedAt = now
	s.emit(ctx, events.BoardingRejected, c)
	return c, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Claims, id string) error {
	if err := reviewer(actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
