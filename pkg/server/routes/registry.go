package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prediction-registry/registry/pkg/auth"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/contract/service"
)

// RegisterRegistryServiceRoutes mounts the registry API on router. Mutating
// routes run behind authenticate, which attaches the caller's principal to
// the user context. Updates resolve and authorize their target before the
// body is parsed.
//
//nolint:funlen,maintidx
func RegisterRegistryServiceRoutes(
	registry service.RegistryService,
	parser contract.HTTPRequestParser,
	router fiber.Router,
	authenticate fiber.Handler,
) {
	router.Get("/authors/", func(ctx *fiber.Ctx) error {
		input := &service.ListAuthors{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		output, err := registry.ListAuthors(ctx.UserContext(), input)
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})
	router.Get("/authors/:username", func(ctx *fiber.Ctx) error {
		input := &service.GetAuthor{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		output, err := registry.GetAuthor(ctx.UserContext(), input)
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})
	router.Put("/authors/:username", authenticate, func(ctx *fiber.Ctx) error {
		target := &service.GetAuthor{}
		if err := parser.ParseParams(ctx, target); err != nil {
			return err
		}

		if err := registry.AuthorizeAuthorUpdate(
			ctx.UserContext(), auth.FromContext(ctx.UserContext()), target,
		); err != nil {
			return err
		}

		input := &service.UpdateAuthor{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}
		output, err := registry.UpdateAuthor(ctx.UserContext(), auth.FromContext(ctx.UserContext()), input)
		if err != nil {
			return err
		}
		return ctx.Status(fiber.StatusCreated).JSON(output)
	})
	router.Delete("/authors/:username", authenticate, func(ctx *fiber.Ctx) error {
		input := &service.DeleteAuthor{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		output, err := registry.DeleteAuthor(ctx.UserContext(), auth.FromContext(ctx.UserContext()), input)
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})

	router.Get("/models/", func(ctx *fiber.Ctx) error {
		input := &service.ListModels{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		output, err := registry.ListModels(ctx.UserContext(), input)
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})
	router.Get("/models/:id", func(ctx *fiber.Ctx) error {
		input := &service.GetModel{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		output, err := registry.GetModel(ctx.UserContext(), input)
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})
	router.Post("/models/", authenticate, func(ctx *fiber.Ctx) error {
		input := &service.CreateModel{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}
		output, err := registry.CreateModel(ctx.UserContext(), auth.FromContext(ctx.UserContext()), input)
		if err != nil {
			return err
		}
		return ctx.Status(fiber.StatusCreated).JSON(output)
	})
	router.Delete("/models/:id", authenticate, func(ctx *fiber.Ctx) error {
		input := &service.DeleteModel{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		if err := registry.DeleteModel(ctx.UserContext(), auth.FromContext(ctx.UserContext()), input); err != nil {
			return err
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	router.Get("/predictions/", func(ctx *fiber.Ctx) error {
		input := &service.ListPredictions{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		output, err := registry.ListPredictions(ctx.UserContext(), input)
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})
	router.Get("/predictions/:id", func(ctx *fiber.Ctx) error {
		input := &service.GetPrediction{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		output, err := registry.GetPrediction(ctx.UserContext(), input)
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})
	router.Post("/predictions/", authenticate, func(ctx *fiber.Ctx) error {
		input := &service.PredictionInput{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}
		output, err := registry.CreatePrediction(ctx.UserContext(), auth.FromContext(ctx.UserContext()), input)
		if err != nil {
			return err
		}
		return ctx.Status(fiber.StatusCreated).JSON(output)
	})
	router.Put("/predictions/:id", authenticate, func(ctx *fiber.Ctx) error {
		target := &service.GetPrediction{}
		if err := parser.ParseParams(ctx, target); err != nil {
			return err
		}

		if err := registry.AuthorizePredictionUpdate(
			ctx.UserContext(), auth.FromContext(ctx.UserContext()), target,
		); err != nil {
			return err
		}

		input := &service.UpdatePrediction{}
		if err := parser.ParseBody(ctx, input); err != nil {
			return err
		}
		output, err := registry.UpdatePrediction(ctx.UserContext(), auth.FromContext(ctx.UserContext()), input)
		if err != nil {
			return err
		}
		return ctx.Status(fiber.StatusCreated).JSON(output)
	})
	router.Delete("/predictions/:id", authenticate, func(ctx *fiber.Ctx) error {
		input := &service.DeletePrediction{}
		if err := parser.ParseQuery(ctx, input); err != nil {
			return err
		}
		if err := registry.DeletePrediction(ctx.UserContext(), auth.FromContext(ctx.UserContext()), input); err != nil {
			return err
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	router.Get("/languages/", func(ctx *fiber.Ctx) error {
		output, err := registry.ListLanguages(ctx.UserContext())
		if err != nil {
			return err
		}
		return ctx.JSON(output)
	})
}
