package controllers

import (
	"errors"
	"fmt"

	"Backend-FormGen/src/repository"
	"Backend-FormGen/src/services/forms"
	"Backend-FormGen/src/services/generator"
	"Backend-FormGen/src/services/submission"
	"Backend-FormGen/src/services/uploads"
	"Backend-FormGen/src/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// respondError maps a service error to its HTTP response. Rejected forms answer exactly like
// missing ones.
func respondError(c *fiber.Ctx, err error, notFound string) error {
	var verr *forms.ValidationError
	var perr *repository.PersistenceError

	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, forms.ErrRejected):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound})
	case errors.As(err, &verr):
		return utils.HandleValidationError(c, verr.Errors)
	case errors.Is(err, forms.ErrInvalidSchema):
		return utils.HandleError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, generator.ErrEmptyPrompt):
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, generator.ErrUpstreamUnavailable):
		return utils.HandleError(c, fiber.StatusBadGateway, err.Error())
	case errors.Is(err, generator.ErrInvalidResponse):
		return utils.HandleError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, submission.ErrUnknownFormat):
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, uploads.ErrTooLarge):
		return utils.HandleError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, uploads.ErrTypeNotAllowed):
		return utils.HandleError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, uploads.ErrEmptyFile):
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &perr):
		return utils.HandleError(c, fiber.StatusInternalServerError, perr.Error())
	}
	return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
}

// bindBody decodes and validates a JSON request body into dst.
func bindBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("Invalid input: %v", err)
	}
	return validate.Struct(dst)
}
