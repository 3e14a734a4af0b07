package routes

import (
	"Backend-FormGen/src/controllers"
	"Backend-FormGen/src/middleware"
	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
)

// Deps ทุกอย่างที่ route ต้องใช้ สร้างครั้งเดียวตอน start
type Deps struct {
	JWTSecret         string
	GenerateCounter   *utils.WindowCounter
	GeneratePerMinute int

	Forms       *controllers.FormController
	Submissions *controllers.SubmissionController
	Public      *controllers.PublicController
	Uploads     *controllers.UploadController
	Contact     *controllers.ContactController
}

func InitRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api")

	auth := middleware.AuthJWT(d.JWTSecret)
	forms := formRoutes(api, auth, d)
	submissionRoutes(forms, d)
	recentSubmissionRoutes(api, auth, d)
	publicRoutes(api, middleware.OptionalJWT(d.JWTSecret), d)
	uploadRoutes(api, d)
	contactRoutes(api, d)

	// Route เช็คว่า API ทำงานอยู่
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})
}
