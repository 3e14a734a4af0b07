package routes

import (
	"github.com/gofiber/fiber/v2"
)

func uploadRoutes(router fiber.Router, d Deps) {
	router.Post("/uploads", d.Uploads.UploadFile)
}

func contactRoutes(router fiber.Router, d Deps) {
	router.Post("/contact", d.Contact.SendContact)
}
