package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/config"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/service/auth"
)

type AuthHandler struct {
	svc auth.Service
	cfg *config.Config
}

func NewAuthHandler(svc auth.Service, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// POST /api/users/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body auth.RegisterRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Role == "" {
		body.Role = model.RolePatient
	}

	session, err := h.svc.Register(c.Context(), body)
	if err != nil {
		return mapAuthError(c, err)
	}

	h.setSessionCookie(c, session.Token)
	return created(c, fiber.Map{"user": session.User, "token": session.Token}, "User registered successfully")
}

// POST /api/users/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body auth.LoginRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "email and password are required")
	}

	session, err := h.svc.Login(c.Context(), body)
	if err != nil {
		return mapAuthError(c, err)
	}

	h.setSessionCookie(c, session.Token)
	return ok(c, fiber.Map{"user": session.User, "token": session.Token}, "Logged in successfully")
}

// POST /api/users/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return ok(c, nil, "Logged out successfully")
}

func (h *AuthHandler) cookieName() string {
	if h.cfg.Authentication.CookieName != "" {
		return h.cfg.Authentication.CookieName
	}
	return "token"
}

func (h *AuthHandler) setSessionCookie(c fiber.Ctx, token string) {
	days := h.cfg.Authentication.SessionTTLDays
	if days <= 0 {
		days = 7
	}
	prod := h.cfg.Server.Environment == "production"

	sameSite := fiber.CookieSameSiteLaxMode
	if prod {
		sameSite = fiber.CookieSameSiteStrictMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName(),
		Value:    token,
		Expires:  time.Now().AddDate(0, 0, days),
		HTTPOnly: true,
		Secure:   prod,
		SameSite: sameSite,
	})
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return conflict(c, err.Error())
	case errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrInvalidPhone):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return unauthorized(c, err.Error())
	default:
		return internalError(c)
	}
}
