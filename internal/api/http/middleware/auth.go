package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/store"
	pasetotoken "github.com/nabhcare/nabh-backend/pkg/paseto"
)

// DefaultCookieName is the session cookie checked before the
// Authorization header.
const DefaultCookieName = "token"

// AuthRequired validates the session token from the cookie or a Bearer
// header and confirms the referenced user still exists. Verified claims are
// stored in c.Locals(pasetotoken.CtxKeyClaims).
//
// An expired token gets its own message so clients can distinguish
// re-login from tampering.
func AuthRequired(mgr *pasetotoken.Manager, users store.UserStore, cookieName string) fiber.Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return func(c fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			token = bearerToken(c.Get("Authorization"))
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized, token missing")
		}

		claims, err := mgr.Verify(token)
		if err != nil {
			if errors.Is(err, pasetotoken.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "token expired")
			}
			return fiber.ErrUnauthorized
		}

		id, err := bson.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		if _, err := users.GetByID(c.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "not authorized, user not found")
			}
			return err
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
