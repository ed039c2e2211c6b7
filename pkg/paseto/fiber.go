package pasetotoken

import (
	"github.com/gofiber/fiber/v3"
)

// CtxKeyClaims is where the auth middleware stashes verified claims on
// the request context.
const CtxKeyClaims = "auth.claims"

// ClaimsFromFiber returns the verified claims set by the auth
// middleware, or nil when the request was not authenticated.
func ClaimsFromFiber(c fiber.Ctx) *Claims {
	v := c.Locals(CtxKeyClaims)
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
