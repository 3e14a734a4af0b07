package routes

import (
	"Backend-FormGen/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// formRoutes กำหนด route สำหรับ form management ของเจ้าของฟอร์ม
func formRoutes(router fiber.Router, auth fiber.Handler, d Deps) fiber.Router {
	forms := router.Group("/forms", auth)

	forms.Post("/generate", middleware.GenerateRateLimit(d.GenerateCounter, d.GeneratePerMinute), d.Forms.GenerateForm)
	forms.Post("/", d.Forms.CreateForm)
	forms.Get("/", d.Forms.ListForms)
	forms.Get("/:id", d.Forms.GetForm)
	forms.Delete("/:id", d.Forms.DeleteForm)
	return forms
}
