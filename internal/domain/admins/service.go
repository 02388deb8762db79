package admins

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-services/internal/platform/apperr"
	"pet-services/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLen = 8

var (
	ErrInvalidInput     = fmt.Errorf("%w: invalid admin", apperr.ErrInvalidInput)
	ErrWeakPassword     = fmt.Errorf("%w: password must have at least %d characters", apperr.ErrInvalidInput, MinPasswordLen)
	ErrInvalidRole      = fmt.Errorf("%w: invalid role", apperr.ErrInvalidInput)
	ErrInvalidPerm      = fmt.Errorf("%w: unknown permission", apperr.ErrInvalidInput)
	ErrNotFound         = fmt.Errorf("%w: admin not found", apperr.ErrNotFound)
	ErrUsernameTaken    = fmt.Errorf("%w: username already exists", apperr.ErrConflict)
	ErrEmailTaken       = fmt.Errorf("%w: email already exists", apperr.ErrConflict)
	ErrSetupDone        = fmt.Errorf("%w: setup already completed", apperr.ErrConflict)
	ErrCannotDeleteSelf = fmt.Errorf("%w: an admin cannot delete itself", apperr.ErrForbidden)
)

type Service struct {
	repo     Repository
	now      func() time.Time
	hashCost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

type CreateInput struct {
	Username    string
	Email       string
	Name        string
	Password    string
	Role        auth.Role
	Permissions map[string]bool
	DoctorID    string
	CenterID    string
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Username    *string
	Email       *string
	Name        *string
	Password    *string
	Role        *auth.Role
	Permissions map[string]bool
	DoctorID    *string
	CenterID    *string
	Active      *bool
}

type LinkedInput struct {
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CenterID     string
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

func (s *Service) HashPassword(pw string) (string, error) {
	if len(pw) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func validPermissions(perms map[string]bool) error {
	for k := range perms {
		if !auth.ValidPermission(k) {
			return fmt.Errorf("%w: %s", ErrInvalidPerm, k)
		}
	}
	return nil
}

// ensureUnique rechaza username/email ya usados por otra cuenta distinta de selfID.
func (s *Service) ensureUnique(ctx context.Context, selfID, username, email string) error {
	a, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil && a.ID != selfID:
		return ErrUsernameTaken
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}

	a, err = s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && a.ID != selfID:
		return ErrEmailTaken
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Admin, error) {
	username := normalize(in.Username)
	email := normalize(in.Email)
	if username == "" || !validEmail(email) {
		return Admin{}, ErrInvalidInput
	}
	if in.Role == "" {
		in.Role = auth.RoleAdmin
	}
	if !in.Role.Valid() || in.Role == auth.RoleCustomer {
		return Admin{}, ErrInvalidRole
	}
	if err := validPermissions(in.Permissions); err != nil {
		return Admin{}, err
	}
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return Admin{}, err
	}
	if err := s.ensureUnique(ctx, "", username, email); err != nil {
		return Admin{}, err
	}

	now := s.now().UTC()
	a := Admin{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
		Permissions:  in.Permissions,
		DoctorID:     strings.TrimSpace(in.DoctorID),
		CenterID:     strings.TrimSpace(in.CenterID),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if a.Permissions == nil {
		a.Permissions = map[string]bool{}
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

// CreateLinked crea la cuenta boarding_center de un centro aprobado, reutilizando
// el hash que el centro registró.
func (s *Service) CreateLinked(ctx context.Context, in LinkedInput) (Admin, error) {
	username := normalize(in.Username)
	email := normalize(in.Email)
	if username == "" || !validEmail(email) || in.PasswordHash == "" || in.CenterID == "" {
		return Admin{}, ErrInvalidInput
	}
	if err := s.ensureUnique(ctx, "", username, email); err != nil {
		return Admin{}, err
	}

	now := s.now().UTC()
	a := Admin{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: in.PasswordHash,
		Role:         auth.RoleBoardingCenter,
		Permissions:  map[string]bool{auth.PermBoarding: true},
		CenterID:     in.CenterID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

// Setup crea el primer super_admin. Solo funciona con la colección vacía.
func (s *Service) Setup(ctx context.Context, in CreateInput) (Admin, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return Admin{}, err
	}
	if n > 0 {
		return Admin{}, ErrSetupDone
	}
	in.Role = auth.RoleSuperAdmin
	in.Permissions = nil
	return s.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Admin, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Admin{}, err
	}

	if in.Username != nil {
		a.Username = normalize(*in.Username)
	}
	if in.Email != nil {
		a.Email = normalize(*in.Email)
	}
	if a.Username == "" || !validEmail(a.Email) {
		return Admin{}, ErrInvalidInput
	}
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !in.Role.Valid() || *in.Role == auth.RoleCustomer {
			return Admin{}, ErrInvalidRole
		}
		a.Role = *in.Role
	}
	if in.Permissions != nil {
		if err := validPermissions(in.Permissions); err != nil {
			return Admin{}, err
		}
		a.Permissions = in.Permissions
	}
	if in.DoctorID != nil {
		a.DoctorID = strings.TrimSpace(*in.DoctorID)
	}
	if in.CenterID != nil {
		a.CenterID = strings.TrimSpace(*in.CenterID)
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.HashPassword(*in.Password)
		if err != nil {
			return Admin{}, err
		}
		a.PasswordHash = hash
	}

	if err := s.ensureUnique(ctx, a.ID, a.Username, a.Email); err != nil {
		return Admin{}, err
	}

	a.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Admin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindByUsername(ctx context.Context, username string) (Admin, error) {
	return s.repo.FindByUsername(ctx, normalize(username))
}

func (s *Service) List(ctx context.Context) ([]Admin, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return ErrCannotDeleteSelf
	}
	return s.repo.Delete(ctx, id)
}
