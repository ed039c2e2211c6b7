package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/store/storetest"
	pasetotoken "github.com/nabhcare/nabh-backend/pkg/paseto"
)

func newManager(t *testing.T, ttl time.Duration) *pasetotoken.Manager {
	t.Helper()

	m, err := pasetotoken.New(pasetotoken.Config{
		Mode:       pasetotoken.ModeLocal,
		Issuer:     "nabh",
		Audience:   "nabh-clients",
		SessionTTL: ttl,
	}, pasetotoken.NewLocalKeys())
	if err != nil {
		t.Fatalf("paseto.New: %v", err)
	}
	return m
}

func newApp(mgr *pasetotoken.Manager, users *storetest.Users, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []any{AuthRequired(mgr, users, "token")}
	for _, h := range extra {
		handlers = append(handlers, h)
	}
	handlers = append(handlers, func(c fiber.Ctx) error {
		claims := pasetotoken.ClaimsFromFiber(c)
		if claims == nil {
			return fiber.ErrInternalServerError
		}
		return c.SendString(claims.Role)
	})
	app.Get("/guarded", handlers[0], handlers[1:]...)
	return app
}

func seedUser(t *testing.T, users *storetest.Users, role model.Role) *model.User {
	t.Helper()

	u := &model.User{Name: "Asha", Email: string(role) + "@example.com", Role: role}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuthRequired(t *testing.T) {
	mgr := newManager(t, time.Hour)
	users := storetest.NewUsers()
	u := seedUser(t, users, model.RolePatient)

	token, err := mgr.Issue(u.ID.Hex(), string(u.Role))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	app := newApp(mgr, users)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("cookie token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "patient" {
			t.Errorf("body = %q, want role claim", body)
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("expired token has its own message", func(t *testing.T) {
		shortMgr := newManager(t, time.Millisecond)
		expired, err := shortMgr.Issue(u.ID.Hex(), string(u.Role))
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		time.Sleep(5 * time.Millisecond)

		shortApp := newApp(shortMgr, users)
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		resp, err := shortApp.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "token expired") {
			t.Errorf("body = %q, want expiry message", body)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost, err := mgr.Issue("64f1c0ffee0000000000dead", string(model.RolePatient))
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+ghost)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestRequireRole(t *testing.T) {
	mgr := newManager(t, time.Hour)
	users := storetest.NewUsers()
	patient := seedUser(t, users, model.RolePatient)
	doctor := seedUser(t, users, model.RoleDoctor)

	app := newApp(mgr, users, RequireRole(string(model.RolePatient)))

	patientTok, err := mgr.Issue(patient.ID.Hex(), string(patient.Role))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	doctorTok, err := mgr.Issue(doctor.ID.Hex(), string(doctor.Role))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+patientTok)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+doctorTok)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})
}
