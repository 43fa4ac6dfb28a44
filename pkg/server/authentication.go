package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/store"
)

// newAuthenticator resolves the X-UID-Key header into the request principal.
// Requests without a valid credential are rejected.
func newAuthenticator(users store.UserStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		credential, err := auth.ParseUIDKey(ctx.Get(auth.HeaderUIDKey))
		if err != nil {
			message := "Invalid " + auth.HeaderUIDKey + " header"
			if errors.Is(err, auth.ErrMissingCredential) {
				message = "Missing " + auth.HeaderUIDKey + " header"
			}

			return contract.NewErrorWith(contract.UNAUTHENTICATED, message, err)
		}

		user, hash, cErr := users.GetUserCredential(ctx.UserContext(), credential.Username)
		if cErr != nil {
			if cErr.Code == contract.RESOURCE_DOES_NOT_EXIST {
				return contract.NewErrorWith(
					contract.UNAUTHENTICATED, "Invalid credentials", auth.RejectSecret(credential.Secret),
				)
			}

			return cErr
		}

		if err := auth.VerifySecret(hash, credential.Secret); err != nil {
			logrus.WithField("username", credential.Username).Info("Rejected API key")

			return contract.NewErrorWith(contract.UNAUTHENTICATED, "Invalid credentials", err)
		}

		ctx.SetUserContext(auth.WithPrincipal(ctx.UserContext(), auth.Principal{
			UserID:   user.ID,
			Username: user.Username,
		}))

		return ctx.Next()
	}
}
