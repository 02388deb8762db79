package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"pet-services/internal/domain/admins"
	"pet-services/internal/platform/apperr"
	"pet-services/internal/platform/logger"
	authport "pet-services/internal/ports/auth"
	"pet-services/internal/ports/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthorized)
	ErrInactive           = fmt.Errorf("%w: account is disabled", apperr.ErrForbidden)
	ErrChallengeNotFound  = fmt.Errorf("%w: otp challenge not found", apperr.ErrNotFound)
	ErrChallengeExpired   = fmt.Errorf("%w: otp expired", apperr.ErrUnauthorized)
	ErrChallengeUsed      = fmt.Errorf("%w: otp already used", apperr.ErrConflict)
	ErrTooManyAttempts    = fmt.Errorf("%w: too many otp attempts", apperr.ErrForbidden)
	ErrInvalidCode        = fmt.Errorf("%w: invalid otp code", apperr.ErrUnauthorized)

	errAttemptRace = errors.New("otp attempt raced")
)

// Accounts es lo que auth necesita del módulo admins.
type Accounts interface {
	FindByUsername(ctx context.Context, username string) (admins.Admin, error)
	GetByID(ctx context.Context, id string) (admins.Admin, error)
}

type Options struct {
	OTPRequired bool
	OTPTTL      time.Duration
}

type Service struct {
	accounts   Accounts
	challenges Repository
	issuer     authport.TokenIssuer
	pub        events.Publisher
	log        logger.Logger
	opts       Options

	now      func() time.Time
	hashCost int
	newCode  func() (string, error)
}

func NewService(accounts Accounts, challenges Repository, issuer authport.TokenIssuer, pub events.Publisher, log logger.Logger, opts Options) *Service {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 5 * time.Minute
	}
	return &Service{
		accounts:   accounts,
		challenges: challenges,
		issuer:     issuer,
		pub:        pub,
		log:        log,
		opts:       opts,
		now:        time.Now,
		hashCost:   bcrypt.DefaultCost,
		newCode:    randomCode,
	}
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPDigits, n.Int64()), nil
}

func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	a, err := s.accounts.FindByUsername(ctx, username)
	if errors.Is(err, admins.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !a.Active {
		return LoginResult{}, ErrInactive
	}

	if !s.opts.OTPRequired {
		tok, err := s.issuer.Issue(a.Claims())
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Token: tok}, nil
	}
	return s.startChallenge(ctx, a)
}

func (s *Service) startChallenge(ctx context.Context, a admins.Admin) (LoginResult, error) {
	code, err := s.newCode()
	if err != nil {
		return LoginResult{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now().UTC()
	c := Challenge{
		ID:        uuid.NewString(),
		AdminID:   a.ID,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.opts.OTPTTL),
		CreatedAt: now,
	}
	if err := s.challenges.Create(ctx, c); err != nil {
		return LoginResult{}, err
	}

	events.Emit(ctx, s.pub, s.log, events.Event{
		Type:       events.AuthOTP,
		EntityID:   c.ID,
		OccurredAt: now,
		Data: map[string]string{
			"email":   a.Email,
			"name":    a.Name,
			"code":    code,
			"minutes": fmt.Sprintf("%d", int(s.opts.OTPTTL.Minutes())),
		},
	})

	return LoginResult{OTPRequired: true, ChallengeID: c.ID, ExpiresAt: c.ExpiresAt}, nil
}

// reserveAttempt registra el intento antes de comparar el código, así requests
// concurrentes no comparan más de MaxOTPAttempts veces. Cada carrera perdida implica que
// attempts subió o used pasó a true, por eso el loop termina.
func (s *Service) reserveAttempt(ctx context.Context, challengeID string) (Challenge, error) {
	for {
		c, err := s.challenges.GetByID(ctx, challengeID)
		if err != nil {
			return Challenge{}, err
		}
		if c.Used {
			return Challenge{}, ErrChallengeUsed
		}
		if !s.now().Before(c.ExpiresAt) {
			return Challenge{}, ErrChallengeExpired
		}
		if c.Attempts >= MaxOTPAttempts {
			return Challenge{}, ErrTooManyAttempts
		}
		err = s.challenges.ReserveAttempt(ctx, c)
		if errors.Is(err, errAttemptRace) {
			continue
		}
		if err != nil {
			return Challenge{}, err
		}
		return c, nil
	}
}

func (s *Service) VerifyOTP(ctx context.Context, challengeID, code string) (LoginResult, error) {
	c, err := s.reserveAttempt(ctx, challengeID)
	if err != nil {
		return LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		return LoginResult{}, ErrInvalidCode
	}

	if err := s.challenges.MarkUsed(ctx, c.ID); err != nil {
		return LoginResult{}, err
	}

	a, err := s.accounts.GetByID(ctx, c.AdminID)
	if err != nil {
		return LoginResult{}, err
	}
	if !a.Active {
		return LoginResult{}, ErrInactive
	}
	tok, err := s.issuer.Issue(a.Claims())
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: tok}, nil
}
