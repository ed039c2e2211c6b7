package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/pkg/authorize"
	pasetotoken "github.com/nabhcare/nabh-backend/pkg/paseto"
)

// RequireRole gates a route group on the caller's role claim. It runs after
// AuthRequired.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c fiber.Ctx) error {
		claims := pasetotoken.ClaimsFromFiber(c)
		if claims == nil {
			return fiber.ErrUnauthorized
		}
		if _, ok := allowed[claims.Role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}
		return c.Next()
	}
}

// RequirePermission enforces the (role, resource, action) policy for the
// authenticated caller.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims := pasetotoken.ClaimsFromFiber(c)
		if claims == nil {
			return fiber.ErrUnauthorized
		}

		subject := authorize.GroupSubject(claims.Role)
		if err := auth.MustEnforce(c.Context(), subject, resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				return fiber.ErrForbidden
			}
			return err
		}

		return c.Next()
	}
}
