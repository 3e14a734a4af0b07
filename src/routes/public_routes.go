package routes

import (
	"github.com/gofiber/fiber/v2"
)

// publicRoutes ฟอร์มสาธารณะ ไม่ต้อง login
func publicRoutes(router fiber.Router, optionalAuth fiber.Handler, d Deps) {
	public := router.Group("/public/forms", optionalAuth)

	public.Get("/:id", d.Public.GetPublicForm)
	public.Post("/:id/submit", d.Public.SubmitPublicForm)
}
