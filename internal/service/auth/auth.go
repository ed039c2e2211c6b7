package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/nabhcare/nabh-backend/config"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store"
	"github.com/nabhcare/nabh-backend/pkg/email"
	pasetotoken "github.com/nabhcare/nabh-backend/pkg/paseto"
	"github.com/nabhcare/nabh-backend/pkg/util/password"
)

// defaultPhoneRegion is used when a phone number comes in without a
// country prefix.
const defaultPhoneRegion = "IN"

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
	Phone    string     `json:"phone"`

	// Doctor extras accepted at signup
	Specialization string `json:"specialization"`
	Degree         string `json:"degree"`
	Hospital       string `json:"hospital"`

	// Pharmacy extras accepted at signup
	PharmacyName  string `json:"pharmacyName"`
	LicenseNumber string `json:"licenseNumber"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is a sanitized user plus the token the client should present
// on subsequent requests.
type Session struct {
	User  *model.User
	Token string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	users      store.UserStore
	tokens     *pasetotoken.Manager
	mail       *email.Client
	hashParams *password.Params
	appName    string
	log        *slog.Logger
}

func New(
	users store.UserStore,
	tokens *pasetotoken.Manager,
	mail *email.Client,
	cfg *config.Config,
	log *slog.Logger,
) Service {
	return &authService{
		users:      users,
		tokens:     tokens,
		mail:       mail,
		hashParams: password.FromCentralConfig(cfg.Password).ToParams(),
		appName:    cfg.Observability.ServiceName,
		log:        log,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	passHash, err := password.HashWithParams(req.Password, s.hashParams)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: passHash,
		Role:     req.Role,
		Phone:    phone,
	}
	switch req.Role {
	case model.RoleDoctor:
		u.Specialization = strings.TrimSpace(req.Specialization)
		u.Degree = strings.TrimSpace(req.Degree)
		u.Hospital = strings.TrimSpace(req.Hospital)
	case model.RolePharmacy:
		u.PharmacyName = strings.TrimSpace(req.PharmacyName)
		u.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(u.ID.Hex(), string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.sendWelcomeEmail(u)

	return &Session{User: u, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same error as a bad password so the response does not
			// reveal whether the email exists.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !password.Match(u.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID.Hex(), string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{User: u, Token: token}, nil
}

// sendWelcomeEmail fires off the greeting without blocking the signup
// response. Failures are logged, never surfaced.
func (s *authService) sendWelcomeEmail(u *model.User) {
	if s.mail == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msg := email.BuildWelcomeEmail(email.WelcomeEmailData{
			Name:    u.Name,
			Email:   u.Email,
			Role:    string(u.Role),
			AppName: s.appName,
		})
		if err := s.mail.Send(ctx, msg); err != nil {
			var disabled email.ErrDisabled
			if errors.As(err, &disabled) {
				return
			}
			s.log.Warn("welcome email failed", "email", u.Email, "error", err)
		}
	}()
}

// normalizePhone returns the E.164 form of the given number, or an empty
// string if none was provided.
func normalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", nil
	}
	parsed, err := phonenumbers.Parse(phone, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
