package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prediction-registry/registry/pkg/config"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/contract/service"
	"github.com/prediction-registry/registry/pkg/server/routes"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/utils"
)

// errorHandler renders every error as {"message": ...} with the status of its
// contract code.
func errorHandler(ctx *fiber.Ctx, err error) error {
	var e *contract.Error
	if !errors.As(err, &e) {
		code := contract.INTERNAL_ERROR

		var f *fiber.Error
		if errors.As(err, &f) {
			switch f.Code {
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
				code = contract.BAD_REQUEST
			case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
				code = contract.ENDPOINT_NOT_FOUND
			}
		}

		e = contract.NewError(code, err.Error())
	}

	entry := logrus.WithFields(logrus.Fields{
		"method": ctx.Method(),
		"path":   ctx.Path(),
	})
	if requestID, ok := utils.RequestID(ctx.UserContext()); ok {
		entry = entry.WithField("request_id", requestID)
	}

	switch status := e.StatusCode(); {
	case status >= fiber.StatusInternalServerError:
		entry.WithError(err).Error("Request failed")
	case status == fiber.StatusNotFound:
		entry.WithError(err).Debug("Request failed")
	default:
		entry.WithError(err).Info("Request failed")
	}

	return ctx.Status(e.StatusCode()).JSON(e)
}

// withRequestID copies the request ID assigned by the requestid middleware
// into the user context, where the store logger picks it up.
func withRequestID(ctx *fiber.Ctx) error {
	if requestID, ok := ctx.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		ctx.SetUserContext(utils.WithRequestID(ctx.UserContext(), requestID))
	}

	return ctx.Next()
}

//nolint:mnd
func NewApp(cfg *config.Config, registry service.RegistryService, users store.UserStore) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		BodyLimit:             4 * 1024 * 1024,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "prediction-registry/" + cfg.Version,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(compress.New())
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(withRequestID)
	app.Use(logger.New(logger.Config{
		Format: "${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		Output: logrus.StandardLogger().Writer(),
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.SendString(cfg.Version)
	})

	parser, err := NewHTTPRequestParser()
	if err != nil {
		return nil, err
	}

	api := app.Group("/api")
	routes.RegisterRegistryServiceRoutes(registry, parser, api, newAuthenticator(users))

	app.Use(func(c *fiber.Ctx) error {
		return contract.NewError(
			contract.ENDPOINT_NOT_FOUND,
			fmt.Sprintf("No endpoint for %s %s", c.Method(), c.Path()),
		)
	})

	return app, nil
}

// Launch serves the app until ctx is cancelled, then shuts down within the
// configured timeout.
func Launch(ctx context.Context, cfg *config.Config, app *fiber.App) error {
	go func() {
		<-ctx.Done()

		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout.Duration); err != nil {
			logrus.Errorf("Failed to gracefully shutdown the registry server: %v", err)
		}
	}()

	logrus.Infof("Serving the prediction registry on %s", cfg.Address)

	if err := app.Listen(cfg.Address); err != nil {
		return fmt.Errorf("failed to start the registry server: %w", err)
	}

	return nil
}
