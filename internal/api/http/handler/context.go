package handler

import (
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"

	pasetotoken "github.com/nabhcare/nabh-backend/pkg/paseto"
)

// callerID resolves the authenticated user's document id from the verified
// claims. A false return means the auth middleware did not run.
func callerID(c fiber.Ctx) (bson.ObjectID, bool) {
	claims := pasetotoken.ClaimsFromFiber(c)
	if claims == nil {
		return bson.ObjectID{}, false
	}
	id, err := bson.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}
