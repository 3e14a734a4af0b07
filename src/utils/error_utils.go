// error_utils.go
package utils

import (
	"Backend-FormGen/src/models"

	"github.com/gofiber/fiber/v2"
)

func HandleError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// HandleValidationError ส่ง error รายฟิลด์กลับไปให้ฟอร์มแสดงผล
func HandleValidationError(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{
		Status:  fiber.StatusUnprocessableEntity,
		Message: "validation failed",
		Errors:  errs,
	})
}
